package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveComposedHTML saves the final HTML document loaded into the browser.
	SaveComposedHTML(data []byte) error

	// SaveRecordsJSON saves the records read from the data file.
	SaveRecordsJSON(data []byte) error

	// SaveContactSheet saves an overview image of all captured previews.
	SaveContactSheet(img image.Image) error
}
