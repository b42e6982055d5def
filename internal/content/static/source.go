package static

import (
	"context"
	"slices"

	"github.com/bornholm/masthead/internal/content"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const Type content.Type = "static"

func init() {
	content.Register(Type, CreateSourceFromOptions)
}

type Options struct {
	Categories []content.Category `mapstructure:"categories"`
}

// Source serves a fixed listing.
type Source struct {
	categories []content.Category
}

// CategoriesWithJournals implements content.Source.
func (s *Source) CategoriesWithJournals(ctx context.Context) ([]content.Category, error) {
	return slices.Clone(s.categories), nil
}

func NewSource(categories ...content.Category) *Source {
	return &Source{categories: categories}
}

func CreateSourceFromOptions(options any) (content.Source, error) {
	opts := Options{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &opts,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not create '%s' content source options decoder", Type)
	}

	if err := decoder.Decode(options); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' content source options", Type)
	}

	return NewSource(opts.Categories...), nil
}

var _ content.Source = &Source{}
