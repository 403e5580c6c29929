// Package templates embeds the dashboard HTML templates.
package templates

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"fixed1": func(f float64) string { return fmt.Sprintf("%.1f", f) },
}

// Parse returns every embedded template, ready for gin's SetHTMLTemplate.
func Parse() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}
