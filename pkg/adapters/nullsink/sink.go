// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/socialimages/pkg/ports"
)

// Sink discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

func (s *Sink) Enabled() bool                          { return false }
func (s *Sink) SaveComposedHTML(data []byte) error     { return nil }
func (s *Sink) SaveRecordsJSON(data []byte) error      { return nil }
func (s *Sink) SaveContactSheet(img image.Image) error { return nil }

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
