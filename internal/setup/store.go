package setup

import (
	"context"

	"github.com/bornholm/masthead/internal/config"
	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/session"
	"github.com/pkg/errors"

	_ "github.com/bornholm/masthead/internal/content/http"
	_ "github.com/bornholm/masthead/internal/content/s3"
	_ "github.com/bornholm/masthead/internal/content/sqlite"
	_ "github.com/bornholm/masthead/internal/content/static"
	_ "github.com/bornholm/masthead/internal/session/memory"
	_ "github.com/bornholm/masthead/internal/session/sqlite"
)

var NewSessionStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (session.Store, error) {
	store, err := session.New(session.Type(conf.Session.Type), conf.Session.OptionsData())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return store, nil
})

var NewContentSourceFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (content.Source, error) {
	source, err := content.New(content.Type(conf.Content.Type), conf.Content.OptionsData())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return source, nil
})

var NewCatalogFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (content.Source, error) {
	catalog, err := content.New(content.Type(conf.Catalog.Type), conf.Catalog.OptionsData())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return catalog, nil
})
