// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/socialimages/pkg/ports"
)

// File names written into the debug directory.
const (
	ComposedHTMLFile = "composed.html"
	RecordsJSONFile  = "records.json"
	ContactSheetFile = "contact-sheet.png"
)

// Sink saves debug output to files in baseDir, creating it on first write.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

func (s *Sink) write(name string, data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, name), data)
}

// SaveComposedHTML saves the document loaded into the browser.
func (s *Sink) SaveComposedHTML(data []byte) error {
	return s.write(ComposedHTMLFile, data)
}

// SaveRecordsJSON saves the records read from the data file.
func (s *Sink) SaveRecordsJSON(data []byte) error {
	return s.write(RecordsJSONFile, data)
}

// SaveContactSheet saves the preview overview image.
func (s *Sink) SaveContactSheet(img image.Image) error {
	data, err := s.renderer.EncodeImage(img)
	if err != nil {
		return fmt.Errorf("encode contact sheet: %w", err)
	}
	return s.write(ContactSheetFile, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
