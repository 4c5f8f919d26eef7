package orchestrator

import "github.com/user/socialimages/pkg/pipeline"

// RunResult contains the results of a pipeline run for summary generation.
// On a failed run it holds what was resolved and written before the failure.
type RunResult struct {
	// Resolved inputs
	OutputDir    string
	PreviewDir   string
	DataFile     string
	TemplatePath string // "bundled:template.html" when no override is set
	StylesPath   string

	// Template parameters
	SiteName string
	Theme    pipeline.Theme
	Applied  pipeline.Substitutions

	// Output
	Records        int
	Artifacts      []pipeline.Artifact
	MissingHeading int

	// Timing in milliseconds
	LoadMs    int64
	CaptureMs int64
	TotalMs   int64
}
