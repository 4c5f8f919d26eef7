// Package contactsheet lays captured previews out in a labelled grid.
package contactsheet

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/user/socialimages/pkg/pipeline"
	"github.com/user/socialimages/pkg/ports"
)

const labelHeight = 24

var (
	background = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	border     = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	labelColor = color.RGBA{R: 60, G: 60, B: 60, A: 255}
)

type thumb struct {
	name string
	src  image.Image
}

// Stage renders a contact sheet from artifacts that kept their image bytes.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new contact sheet stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("contactsheet"),
	}
}

// Execute builds the sheet. Thumbnails keep the aspect ratio of the first
// preview; artifacts without image bytes are skipped.
func (s *Stage) Execute(ctx context.Context, input pipeline.ContactSheetInput) (pipeline.ContactSheetResult, error) {
	defaults := pipeline.DefaultContactSheetInput()
	if input.Columns <= 0 {
		input.Columns = defaults.Columns
	}
	if input.ThumbWidth <= 0 {
		input.ThumbWidth = defaults.ThumbWidth
	}
	if input.Gap < 0 {
		input.Gap = defaults.Gap
	}

	var thumbs []thumb
	for _, artifact := range input.Artifacts {
		if err := ctx.Err(); err != nil {
			return pipeline.ContactSheetResult{}, err
		}
		if len(artifact.Image) == 0 {
			continue
		}
		img, err := s.renderer.DecodeImage(artifact.Image)
		if err != nil {
			return pipeline.ContactSheetResult{}, fmt.Errorf("contact sheet: %s: %w", artifact.Name, err)
		}
		thumbs = append(thumbs, thumb{name: artifact.Name, src: img})
	}

	if len(thumbs) == 0 {
		return pipeline.ContactSheetResult{}, fmt.Errorf("contact sheet: no images")
	}

	first := thumbs[0].src.Bounds()
	thumbHeight := input.ThumbWidth * first.Dy() / first.Dx()

	cols := input.Columns
	if len(thumbs) < cols {
		cols = len(thumbs)
	}
	rows := (len(thumbs) + cols - 1) / cols

	cellW := input.ThumbWidth
	cellH := thumbHeight + labelHeight
	width := cols*cellW + (cols+1)*input.Gap
	height := rows*cellH + (rows+1)*input.Gap

	s.logger.Debug("Rendering contact sheet: %dx%d, %d previews", width, height, len(thumbs))

	canvas := s.renderer.CreateCanvas(width, height, background)
	for i, th := range thumbs {
		x := input.Gap + (i%cols)*(cellW+input.Gap)
		y := input.Gap + (i/cols)*(cellH+input.Gap)

		canvas.DrawImage(s.renderer.ResizeImage(th.src, input.ThumbWidth, thumbHeight), x, y)
		canvas.DrawRectStroke(x, y, input.ThumbWidth, thumbHeight, border, 1)
		canvas.DrawText(th.name, x+cellW/2, y+thumbHeight+labelHeight/2, ports.TextStyle{
			FontSize: 13,
			Color:    labelColor,
			Align:    ports.AlignCenter,
		})
	}

	return pipeline.ContactSheetResult{Image: canvas.ToImage()}, nil
}
