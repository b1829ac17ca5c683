// Package ui embeds the HTML templates and static assets of the search forms.
package ui

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var Files embed.FS

// Templates parses every page template. Pages are addressed by file name, e.g. "form.html".
func Templates() (*template.Template, error) {
	return template.ParseFS(Files, "templates/*.html")
}

// Static returns the stylesheet directory to serve under /ui.
func Static() (fs.FS, error) {
	return fs.Sub(Files, "static")
}
