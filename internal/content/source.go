package content

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Journal is a journal record as published by the content service.
type Journal struct {
	Title     string `json:"title"`
	PrintISSN string `json:"print_issn,omitempty"`
	EISSN     string `json:"e_issn,omitempty"`
}

// Category groups journals. Route is optional, journals of a category
// without route are addressed by their own slug.
type Category struct {
	Title    string    `json:"title"`
	Route    string    `json:"route,omitempty"`
	Journals []Journal `json:"journals"`
}

// Source provides the category to journal listing.
type Source interface {
	CategoriesWithJournals(ctx context.Context) ([]Category, error)
}

type SourceFunc func(ctx context.Context) ([]Category, error)

func (fn SourceFunc) CategoriesWithJournals(ctx context.Context) ([]Category, error) {
	return fn(ctx)
}

// rawCategory defers the decoding of the journal list, a category
// whose journals are not an array is kept without journals.
type rawCategory struct {
	Title    string          `json:"title"`
	Route    string          `json:"route"`
	Journals json.RawMessage `json:"journals"`
}

// Decode parses a JSON listing. Anything but an array of
// categories is rejected.
func Decode(r io.Reader) ([]Category, error) {
	var raw []rawCategory

	decoder := json.NewDecoder(r)

	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "could not decode categories")
	}

	if raw == nil {
		return nil, errors.New("unexpected null categories listing")
	}

	categories := make([]Category, 0, len(raw))
	for idx, rc := range raw {
		category := Category{
			Title: rc.Title,
			Route: rc.Route,
		}

		if isJSONArray(rc.Journals) {
			if err := json.Unmarshal(rc.Journals, &category.Journals); err != nil {
				return nil, errors.Wrapf(err, "could not decode journals of category #%d", idx)
			}
		}

		categories = append(categories, category)
	}

	return categories, nil
}

func isJSONArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Importer is implemented by the sources able to replace their
// whole listing.
type Importer interface {
	Replace(ctx context.Context, categories []Category) error
}
