// Package summarizer provides summary generation for preview runs.
package summarizer

import (
	"time"

	"github.com/user/socialimages/pkg/orchestrator"
)

// Summary contains the data reported after a run.
type Summary struct {
	GeneratedAt time.Time

	Inputs   InputInfo
	Settings Settings
	Template TemplateInfo
	Previews []PreviewInfo
	Timing   TimingInfo

	// Error is the failure message of an aborted run, empty on success.
	Error string
}

// InputInfo contains the resolved input paths.
type InputInfo struct {
	OutputDir    string
	PreviewDir   string
	DataFile     string
	TemplatePath string
	StylesPath   string
	Records      int
}

// Settings contains the rendering configuration.
type Settings struct {
	SiteName          string
	Theme             string
	Engine            string
	LaunchMode        string
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64
}

// TemplateInfo reports how the template was parameterised.
type TemplateInfo struct {
	SiteNameApplied bool
	StyleApplied    bool
	ThemeApplied    bool
	MissingHeading  int // Previews captured with the template heading
}

// PreviewInfo describes one written preview.
type PreviewInfo struct {
	Name  string
	Path  string
	Bytes int
}

// TimingInfo contains timing measurements.
type TimingInfo struct {
	LoadMs    int64
	CaptureMs int64
	TotalMs   int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRun copies inputs, template report, previews and timings from a run.
func (b *Builder) WithRun(result orchestrator.RunResult) *Builder {
	b.summary.Inputs = InputInfo{
		OutputDir:    result.OutputDir,
		PreviewDir:   result.PreviewDir,
		DataFile:     result.DataFile,
		TemplatePath: result.TemplatePath,
		StylesPath:   result.StylesPath,
		Records:      result.Records,
	}
	b.summary.Template = TemplateInfo{
		SiteNameApplied: result.Applied.SiteName,
		StyleApplied:    result.Applied.Style,
		ThemeApplied:    result.Applied.Theme,
		MissingHeading:  result.MissingHeading,
	}
	b.summary.Previews = make([]PreviewInfo, 0, len(result.Artifacts))
	for _, a := range result.Artifacts {
		b.summary.Previews = append(b.summary.Previews, PreviewInfo{Name: a.Name, Path: a.Path, Bytes: a.Bytes})
	}
	b.summary.Timing = TimingInfo{
		LoadMs:    result.LoadMs,
		CaptureMs: result.CaptureMs,
		TotalMs:   result.TotalMs,
	}
	return b
}

// WithSettings sets rendering settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithError records the error of a failed run.
func (b *Builder) WithError(err error) *Builder {
	if err != nil {
		b.summary.Error = err.Error()
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
