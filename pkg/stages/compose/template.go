package compose

import (
	"strings"

	"github.com/user/socialimages/pkg/pipeline"
)

// Placeholders recognised in template documents.
const (
	SiteNamePlaceholder = "{{ siteName }}"
	StylePlaceholder    = "{{ style }}"
)

// themeAttr returns the class attribute literal for a theme.
func themeAttr(theme pipeline.Theme) string {
	return `class="` + string(theme) + `"`
}

// SubstituteSiteName replaces the first site name placeholder with name.
// The name is inserted as-is, without HTML escaping.
func SubstituteSiteName(html, name string) (string, bool) {
	return replaceFirst(html, SiteNamePlaceholder, name)
}

// InjectStyle replaces the first style placeholder with the raw stylesheet.
func InjectStyle(html, css string) (string, bool) {
	return replaceFirst(html, StylePlaceholder, css)
}

// ApplyTheme rewrites the first default theme class attribute to theme.
// The match is a plain string match on class="blue"; templates that spell
// the attribute differently keep their default theme.
func ApplyTheme(html string, theme pipeline.Theme) (string, bool) {
	return replaceFirst(html, themeAttr(pipeline.DefaultTheme), themeAttr(theme))
}

// Compose runs the name, style and theme substitutions in that order.
func Compose(input pipeline.TemplateInput) pipeline.ComposeResult {
	var result pipeline.ComposeResult

	html := input.HTML
	html, result.Applied.SiteName = SubstituteSiteName(html, input.SiteName)
	html, result.Applied.Style = InjectStyle(html, input.CSS)
	html, result.Applied.Theme = ApplyTheme(html, input.Theme)
	result.HTML = html

	return result
}

func replaceFirst(s, old, repl string) (string, bool) {
	if !strings.Contains(s, old) {
		return s, false
	}
	return strings.Replace(s, old, repl, 1), true
}
