package ui

import (
	"embed"
	"html/template"
	"io/fs"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/dustin/go-humanize"
	"github.com/laher/mergefs"
	"github.com/pkg/errors"
)

//go:embed templates/**
var commonFs embed.FS

var templates *template.Template

var templatePatterns = []string{
	"**/views/*.gohtml",
	"**/layouts/*.gohtml",
}

var commonFuncs = template.FuncMap{
	"humanizeTime": humanize.Time,
	"isoTime": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}

// Templates parses the page layouts merged with the given filesystems.
// A file present in several filesystems is read from the first one
// listing it, the page layouts always come first.
func Templates(funcs template.FuncMap, filesystems ...fs.FS) (*template.Template, error) {
	merged := mergefs.Merge(append([]fs.FS{commonFs}, filesystems...)...)

	files := make([]string, 0)
	for _, pattern := range templatePatterns {
		matches, err := fs.Glob(merged, pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "could not list templates matching '%s'", pattern)
		}

		files = append(files, matches...)
	}

	tmpl, err := template.New("").
		Funcs(sprig.FuncMap()).
		Funcs(commonFuncs).
		Funcs(funcs).
		ParseFS(merged, files...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return tmpl, nil
}

type HeadTemplateData struct {
	PageTitle   string
	DatastarURL string
	RenderedAt  time.Time
}
