package setup

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/masthead/internal/config"
	"github.com/bornholm/masthead/internal/header"
	"github.com/bornholm/masthead/internal/menu"
	"github.com/bornholm/masthead/internal/site"
	"github.com/pkg/errors"
)

var NewMenuFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*menu.Menu, error) {
	if conf.Header.Menu == "" {
		return menu.Default(), nil
	}

	m, err := menu.LoadFile(string(conf.Header.Menu))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	slog.InfoContext(ctx, "menu loaded", slog.String("file", string(conf.Header.Menu)), slog.Int("entries", len(m.Entries())))

	return m, nil
})

var NewRendererFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*header.Renderer, error) {
	renderer, err := header.NewRenderer(
		header.WithBreakpoint(int(conf.Header.Breakpoint)),
		header.WithTemplateDir(string(conf.Header.Templates.Dir)),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return renderer, nil
})

var NewHeaderRegistryFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*header.Registry, error) {
	store, err := NewSessionStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	source, err := NewContentSourceFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	m, err := NewMenuFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metrics, err := NewMetricsFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	hoverGrace := header.DefaultHoverGrace
	if conf.Header.HoverGrace != nil {
		hoverGrace = time.Duration(*conf.Header.HoverGrace)
	}

	idleTimeout := header.DefaultIdleTimeout
	if conf.Header.IdleTimeout != nil {
		idleTimeout = time.Duration(*conf.Header.IdleTimeout)
	}

	factory := site.NewHeaderFactory(store, source,
		header.WithMenu(m),
		header.WithMetrics(metrics.Collectors),
		header.WithMachineOptions(header.WithHoverGrace(hoverGrace)),
	)

	registry := header.NewRegistry(factory,
		header.WithIdleTimeout(idleTimeout),
		header.WithRegistryMetrics(metrics.Collectors),
	)

	return registry, nil
})
