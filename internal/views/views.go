// Package views holds the server-rendered pages. Every template is named by
// its page path, e.g. "doctor/dashboard".
package views

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates
var files embed.FS

// Dates come back from the store in UTC and are shown in the server's zone,
// the same zone form input is parsed in.
var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.In(time.Local).Format("Jan 2, 2006")
	},
	"formatDateTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.In(time.Local).Format("Jan 2, 2006 3:04 PM")
	},
}

// Load parses every embedded template.
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files,
		"templates/*.tmpl",
		"templates/doctor/*.tmpl",
		"templates/patient/*.tmpl",
	)
}
