package pipeline

import (
	"context"
	"image"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Viewport is the rendering surface used for every capture of a batch.
// Width and Height are CSS pixels; captured bitmaps are scaled by
// DeviceScaleFactor.
type Viewport struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
}

// DefaultViewport returns the social card viewport: 600x315 at 2x
// (1200x630 physical pixels).
func DefaultViewport() Viewport {
	return Viewport{
		Width:             600,
		Height:            315,
		DeviceScaleFactor: 2,
	}
}

// Physical returns the pixel dimensions of a capture.
func (v Viewport) Physical() Dimension {
	return Dimension{
		Width:  int(float64(v.Width) * v.DeviceScaleFactor),
		Height: int(float64(v.Height) * v.DeviceScaleFactor),
	}
}

// Record is one entry of the input data set.
type Record struct {
	Title   string `json:"title" yaml:"title"`
	ImgName string `json:"imgName" yaml:"imgName"`
}

// FileName returns the output image file name for the record.
func (r Record) FileName() string {
	return r.ImgName + ".png"
}

// =============================================================================
// Compose Stage Types
// =============================================================================

// Theme selects the CSS class applied to the template root element.
type Theme string

const (
	ThemeBlue    Theme = "blue"
	ThemeGreen   Theme = "green"
	ThemeMinimal Theme = "minimal"
	ThemeSunset  Theme = "sunset"
	ThemePop     Theme = "pop"
)

// DefaultTheme is the theme class present in templates before substitution.
const DefaultTheme = ThemeBlue

// Themes lists the themes shipped with the bundled stylesheet.
var Themes = []Theme{ThemeBlue, ThemeGreen, ThemeMinimal, ThemeSunset, ThemePop}

// Known reports whether the theme is styled by the bundled stylesheet.
// Unknown themes are still applied verbatim.
func (t Theme) Known() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// TemplateInput contains the parts merged into the final HTML document.
type TemplateInput struct {
	HTML     string // Template document text
	CSS      string // Stylesheet text, injected verbatim
	SiteName string
	Theme    Theme
}

// Substitutions reports which placeholders were found and replaced.
type Substitutions struct {
	SiteName bool
	Style    bool
	Theme    bool
}

// ComposeResult contains the renderable HTML document.
type ComposeResult struct {
	HTML    string
	Applied Substitutions
}

// =============================================================================
// Capture Stage Types
// =============================================================================

// Artifact is one preview image written to disk.
type Artifact struct {
	Name  string // Record image name, without extension
	Path  string
	Bytes int
	// Image holds the encoded PNG when the capture stage is asked to keep it.
	Image []byte `json:"-"`
}

// CaptureTarget is the live render target a batch captures from.
type CaptureTarget interface {
	// Mutate rewrites the heading of the loaded document with the record title.
	// It reports false when the document has no heading to rewrite.
	Mutate(ctx context.Context, record Record) (bool, error)

	// Capture writes a PNG of the viewport to path and returns its bytes.
	Capture(ctx context.Context, path string) ([]byte, error)
}

// CaptureInput contains parameters for a batch capture.
type CaptureInput struct {
	Records    []Record
	PreviewDir string
	Target     CaptureTarget
	KeepImages bool // Retain PNG bytes in the result artifacts
}

// CaptureResult contains the artifacts produced by a batch, in record order.
// On failure it holds the prefix written before the failing record.
type CaptureResult struct {
	Artifacts      []Artifact
	MissingHeading int // Records captured without a heading to rewrite
}

// =============================================================================
// Contact Sheet Stage Types
// =============================================================================

// ContactSheetInput contains the captured previews to lay out.
type ContactSheetInput struct {
	Artifacts  []Artifact
	Columns    int
	ThumbWidth int
	Gap        int
}

// DefaultContactSheetInput returns ContactSheetInput with default values.
func DefaultContactSheetInput() ContactSheetInput {
	return ContactSheetInput{
		Columns:    3,
		ThumbWidth: 300,
		Gap:        16,
	}
}

// ContactSheetResult contains the rendered contact sheet.
type ContactSheetResult struct {
	Image image.Image
}
