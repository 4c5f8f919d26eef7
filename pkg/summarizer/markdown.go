package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# Social Images Summary\n\n")
	fmt.Fprintf(&b, "Generated at %s\n\n", s.GeneratedAt.Format(time.RFC3339))

	if s.Error != "" {
		fmt.Fprintf(&b, "> **Run failed:** %s\n\n", s.Error)
	}

	b.WriteString("## Inputs\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	row(&b, "Output directory", s.Inputs.OutputDir)
	row(&b, "Preview directory", s.Inputs.PreviewDir)
	row(&b, "Data file", s.Inputs.DataFile)
	row(&b, "Template", s.Inputs.TemplatePath)
	row(&b, "Stylesheet", s.Inputs.StylesPath)
	row(&b, "Records", fmt.Sprintf("%d", s.Inputs.Records))
	b.WriteString("\n")

	b.WriteString("## Settings\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	row(&b, "Site name", s.Settings.SiteName)
	row(&b, "Theme", s.Settings.Theme)
	row(&b, "Engine", s.Settings.Engine)
	row(&b, "Launch mode", s.Settings.LaunchMode)
	row(&b, "Viewport", fmt.Sprintf("%dx%d @ %gx", s.Settings.ViewportWidth, s.Settings.ViewportHeight, s.Settings.DeviceScaleFactor))
	row(&b, "Image size", fmt.Sprintf("%dx%d",
		int(float64(s.Settings.ViewportWidth)*s.Settings.DeviceScaleFactor),
		int(float64(s.Settings.ViewportHeight)*s.Settings.DeviceScaleFactor)))
	b.WriteString("\n")

	b.WriteString("## Template\n\n")
	b.WriteString("| Substitution | Applied |\n|---|---|\n")
	row(&b, "Site name", yesNo(s.Template.SiteNameApplied))
	row(&b, "Style", yesNo(s.Template.StyleApplied))
	row(&b, "Theme", yesNo(s.Template.ThemeApplied))
	b.WriteString("\n")
	if s.Template.MissingHeading > 0 {
		fmt.Fprintf(&b, "%d previews were captured without a heading to rewrite.\n\n", s.Template.MissingHeading)
	}

	fmt.Fprintf(&b, "## Previews (%d)\n\n", len(s.Previews))
	if len(s.Previews) == 0 {
		b.WriteString("No previews were written.\n\n")
	} else {
		b.WriteString("| # | Name | Path | Size |\n|---|---|---|---|\n")
		for i, p := range s.Previews {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, escape(p.Name), escape(p.Path), formatBytes(p.Bytes))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Timing\n\n")
	b.WriteString("| Phase | Duration |\n|---|---|\n")
	row(&b, "Load and render", fmt.Sprintf("%d ms", s.Timing.LoadMs))
	row(&b, "Capture", fmt.Sprintf("%d ms", s.Timing.CaptureMs))
	row(&b, "Total", fmt.Sprintf("%d ms", s.Timing.TotalMs))

	return b.String()
}

func row(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", name, escape(value))
}

// escape keeps pipes in paths and names from breaking table cells.
func escape(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func formatBytes(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
