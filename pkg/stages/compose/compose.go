// Package compose implements the template composition stage.
package compose

import (
	"context"

	"github.com/user/socialimages/pkg/pipeline"
	"github.com/user/socialimages/pkg/ports"
)

// Stage merges a template, a stylesheet, a site name and a theme into the
// HTML document loaded by the render session.
type Stage struct {
	sink   ports.DebugSink
	logger ports.Logger
}

// NewStage creates a new compose stage.
func NewStage(sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		sink:   sink,
		logger: logger.WithComponent("compose"),
	}
}

// Execute composes the final HTML. Missing placeholders are reported in the
// result and logged, never returned as errors.
func (s *Stage) Execute(ctx context.Context, input pipeline.TemplateInput) (pipeline.ComposeResult, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.ComposeResult{}, err
	}

	if !input.Theme.Known() {
		s.logger.Debug("Theme %q is not styled by the bundled stylesheet", string(input.Theme))
	}

	result := Compose(input)

	if !result.Applied.SiteName {
		s.logger.Warn("Template has no %s placeholder", SiteNamePlaceholder)
	}
	if !result.Applied.Style {
		s.logger.Warn("Template has no %s placeholder", StylePlaceholder)
	}
	if !result.Applied.Theme && input.Theme != pipeline.DefaultTheme {
		s.logger.Warn("Template has no %s attribute, theme %q not applied", themeAttr(pipeline.DefaultTheme), string(input.Theme))
	}

	s.logger.Debug("Composed HTML document: %d bytes", len(result.HTML))

	if s.sink.Enabled() {
		if err := s.sink.SaveComposedHTML([]byte(result.HTML)); err != nil {
			s.logger.Warn("Failed to save debug output: %s", err)
		}
	}

	return result, nil
}
