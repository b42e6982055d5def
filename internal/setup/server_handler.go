package setup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bornholm/masthead/internal/config"
	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/metrics"
	"github.com/bornholm/masthead/internal/pprof"
	"github.com/bornholm/masthead/internal/ratelimit"
	"github.com/bornholm/masthead/internal/site"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	sloghttp "github.com/samber/slog-http"
)

func NewHandlerFromConfig(ctx context.Context, conf *config.Config) (http.Handler, error) {
	mux := &http.ServeMux{}

	slogMiddleware := sloghttp.NewWithConfig(slog.Default(), sloghttp.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	})

	registry, err := NewHeaderRegistryFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	renderer, err := NewRendererFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cookieStore, err := NewCookieStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	catalog, err := NewCatalogFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	m, err := NewMetricsFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rateLimiter := ratelimit.New(rate.Limit(conf.HTTP.RateLimit.Rate), int(conf.HTTP.RateLimit.Burst))

	siteHandler := site.NewHandler(registry, renderer,
		site.WithSessionStore(cookieStore, string(conf.HTTP.Session.Name)),
		site.WithRateLimiter(rateLimiter),
		site.WithMetrics(m.Collectors),
		site.WithDatastarURL(string(conf.HTTP.DatastarURL)),
	)

	mux.Handle(content.CategoriesWithJournalsPath, slogMiddleware(content.NewHandler(catalog)))

	if m.Registry != nil {
		mux.Handle("GET /metrics", metrics.GetHandlerForRegistry(m.Registry))
	}

	if conf.HTTP.Debug {
		mux.Handle("/debug/pprof/", pprof.NewHandler("/debug/pprof", map[string]pprof.Var{
			"masthead_headers": func() any { return registry.Len() },
		}))
	}

	// Event streams are long lived, their access log is written when they end
	mux.Handle("/", slogMiddleware(siteHandler))

	return mux, nil
}
