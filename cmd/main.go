package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bornholm/masthead/internal/config"
	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/setup"
	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	configFile  string = ""
	dumpConfig  bool   = false
	loadCatalog string = ""
)

func init() {
	flag.StringVar(&configFile, "config", configFile, "configuration file")
	flag.BoolVar(&dumpConfig, "dump-config", dumpConfig, "dump default configuration file and exit")
	flag.StringVar(&loadCatalog, "load-catalog", loadCatalog, "replace the catalog with the given journal categories JSON file and exit")
}

const shutdownTimeout = 10 * time.Second

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conf := config.NewDefaultConfig()

	if dumpConfig {
		if err := config.Dump(os.Stdout, conf); err != nil {
			slog.ErrorContext(ctx, "could not dump config file", log.Error(errors.WithStack(err)))
			os.Exit(1)
		}

		os.Exit(0)
	}

	if configFile != "" {
		if err := config.LoadFile(configFile, conf); err != nil {
			slog.ErrorContext(ctx, "could not parse config file", log.Error(errors.WithStack(err)), slog.String("file", configFile))
			os.Exit(1)
		}
	}

	if err := config.Interpolate(conf); err != nil {
		slog.ErrorContext(ctx, "could not interpolate config file", log.Error(errors.WithStack(err)))
		os.Exit(1)
	}

	handler, err := conf.Logger.Handler(os.Stderr)
	if err != nil {
		slog.ErrorContext(ctx, "could not create logger", log.Error(errors.WithStack(err)))
		os.Exit(1)
	}

	logger := slog.New(log.ContextHandler{
		Handler: handler,
	})

	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.Level(conf.Logger.Level))

	if loadCatalog != "" {
		if err := importCatalog(ctx, conf, loadCatalog); err != nil {
			slog.ErrorContext(ctx, "could not load catalog", log.Error(errors.WithStack(err)), slog.String("file", loadCatalog))
			os.Exit(1)
		}

		os.Exit(0)
	}

	if err := run(ctx, conf); err != nil {
		slog.ErrorContext(ctx, "server stopped with error", log.Error(errors.WithStack(err)))
		os.Exit(1)
	}
}

func run(ctx context.Context, conf *config.Config) error {
	handler, err := setup.NewHandlerFromConfig(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "could not generate handler from config")
	}

	registry, err := setup.NewHeaderRegistryFromConfig(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}

	renderer, err := setup.NewRendererFromConfig(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}

	store, err := setup.NewSessionStoreFromConfig(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}

	catalog, err := setup.NewCatalogFromConfig(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}

	server := http.Server{
		Addr:    string(conf.HTTP.Address),
		Handler: handler,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		slog.InfoContext(ctx, "http server listening", slog.String("addr", server.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.WithStack(err)
		}

		return nil
	})

	eg.Go(func() error {
		return registry.Run(ctx)
	})

	if conf.Header.Templates.Watch && conf.Header.Templates.Dir != "" {
		eg.Go(func() error {
			return renderer.Watch(ctx)
		})
	}

	eg.Go(func() error {
		<-ctx.Done()

		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Unmounting first ends the event streams so that Shutdown does
		// not wait for them
		if err := registry.Close(); err != nil {
			slog.Error("could not close header registry", log.Error(errors.WithStack(err)))
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.WithStack(err)
		}

		if err := store.Close(); err != nil {
			return errors.WithStack(err)
		}

		if err := closeSource(catalog); err != nil {
			return errors.WithStack(err)
		}

		return nil
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return errors.WithStack(err)
	}

	return nil
}

func importCatalog(ctx context.Context, conf *config.Config, path string) error {
	catalog, err := setup.NewCatalogFromConfig(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}

	defer func() {
		if err := closeSource(catalog); err != nil {
			slog.ErrorContext(ctx, "could not close catalog", log.Error(errors.WithStack(err)))
		}
	}()

	importer, ok := catalog.(content.Importer)
	if !ok {
		return errors.Errorf("catalog type '%s' does not support imports", conf.Catalog.Type)
	}

	file, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}

	defer file.Close()

	categories, err := content.Decode(file)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := importer.Replace(ctx, categories); err != nil {
		return errors.WithStack(err)
	}

	slog.InfoContext(ctx, "catalog loaded", slog.Int("categories", len(categories)))

	return nil
}

func closeSource(source content.Source) error {
	closer, ok := source.(io.Closer)
	if !ok {
		return nil
	}

	return closer.Close()
}
