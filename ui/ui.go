// Package ui embeds the console's HTML templates and static assets.
package ui

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/meghashyamc/searchdesk/views"
)

//go:embed templates static
var Files embed.FS

// Static is the tree served under /ui.
func Static() fs.FS {
	static, err := fs.Sub(Files, "static")
	if err != nil {
		panic(err)
	}
	return static
}

// Templates parses every page template with the views helpers installed.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(views.Funcs()).ParseFS(Files, "templates/*.html")
}
