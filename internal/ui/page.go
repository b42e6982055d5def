package ui

import (
	"html/template"
	"io"

	"github.com/pkg/errors"
)

// PageTemplateData is the data of the site page shell.
type PageTemplateData struct {
	HeadTemplateData

	// Header is the pre-rendered masthead markup
	Header template.HTML

	// StreamURL is the event stream patching the masthead
	StreamURL string

	Path string
}

func RenderPage(w io.Writer, data PageTemplateData) error {
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func init() {
	tmpl, err := Templates(nil)
	if err != nil {
		panic(errors.WithStack(err))
	}

	templates = tmpl
}
