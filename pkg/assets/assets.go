// Package assets holds the template and stylesheet used when no override
// paths are configured.
package assets

import _ "embed"

// TemplateName and StylesName identify the bundled files in logs and errors.
const (
	TemplateName = "template.html"
	StylesName   = "style.css"
)

//go:embed template.html
var template string

//go:embed style.css
var styles string

// Template returns the bundled HTML template.
func Template() string {
	return template
}

// Styles returns the bundled stylesheet.
func Styles() string {
	return styles
}
