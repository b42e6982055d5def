package sqlite

import (
	"context"

	"github.com/bornholm/masthead/internal/content"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const Type content.Type = "sqlite"

func init() {
	content.Register(Type, CreateSourceFromOptions)
}

type Options struct {
	Path string `mapstructure:"path"`
}

func CreateSourceFromOptions(options any) (content.Source, error) {
	opts := Options{}

	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' content source options", Type)
	}

	if opts.Path == "" {
		return nil, errors.Errorf("'%s' content source requires a path", Type)
	}

	catalog, err := NewCatalog(context.Background(), opts.Path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return catalog, nil
}
