package mocks

import (
	"image"
	"sync"

	"github.com/user/socialimages/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SaveComposedHTMLFunc func(data []byte) error
	SaveRecordsJSONFunc  func(data []byte) error
	SaveContactSheetFunc func(img image.Image) error

	ComposedHTML []byte
	RecordsJSON  []byte
	ContactSheet image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveComposedHTML(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveComposedHTMLFunc != nil {
		return m.SaveComposedHTMLFunc(data)
	}
	m.ComposedHTML = data
	return nil
}

func (m *DebugSink) SaveRecordsJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveRecordsJSONFunc != nil {
		return m.SaveRecordsJSONFunc(data)
	}
	m.RecordsJSON = data
	return nil
}

func (m *DebugSink) SaveContactSheet(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveContactSheetFunc != nil {
		return m.SaveContactSheetFunc(img)
	}
	m.ContactSheet = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
