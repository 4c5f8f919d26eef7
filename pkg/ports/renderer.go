package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts the raster operations used to assemble contact sheets.
type Renderer interface {
	// CreateCanvas creates a canvas filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage decodes a captured preview.
	DecodeImage(data []byte) (image.Image, error)

	// EncodeImage encodes an image as PNG.
	EncodeImage(img image.Image) ([]byte, error)

	// ResizeImage scales an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas provides drawing operations for a contact sheet.
type Canvas interface {
	DrawImage(img image.Image, x, y int)
	DrawRect(x, y, w, h int, c color.Color)
	DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64)

	// DrawText draws a single line of text vertically centred on y.
	DrawText(text string, x, y int, style TextStyle)

	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string // TrueType font file; empty uses the built-in bitmap face
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)
