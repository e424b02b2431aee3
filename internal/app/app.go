package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/decksite/internal/build"
	"github.com/woozymasta/decksite/internal/config"
	"github.com/woozymasta/decksite/internal/content"
	"github.com/woozymasta/decksite/internal/metrics"
	"github.com/woozymasta/decksite/internal/reloader"
	"github.com/woozymasta/decksite/internal/web"
)

// App is the dev watcher: it rebuilds content on change and serves the last
// good snapshot over HTTP.
type App struct {
	cfg       *config.Config
	registry  *content.Registry
	builder   *build.Builder
	store     *build.Store
	metrics   *metrics.Metrics
	webServer *web.Server
	reloader  *reloader.Reloader
}

// New creates and initializes a new App instance. host may be empty to
// listen on every interface.
func New(ctx context.Context, cfg *config.Config, host string) (*App, error) {
	var m *metrics.Metrics
	if cfg.Dev.MetricsEnabled {
		m = metrics.New()
	}

	registry := content.NewRegistry(cfg)
	builder := build.New(registry, LoadOptions(cfg), m)
	store := &build.Store{}

	a := &App{
		cfg:      cfg,
		registry: registry,
		builder:  builder,
		store:    store,
		metrics:  m,
	}

	targets := make([]reloader.Target, 0, 2)
	targets = append(targets,
		reloader.Target{Dir: registry.Reviews.Base, Match: registry.Reviews.Match},
		reloader.Target{Dir: registry.Decks.Base, Match: registry.Decks.Match},
	)

	rl, err := reloader.New(targets, cfg.Dev.ReloadInterval.Std(), a.rebuild)
	if err != nil {
		return nil, fmt.Errorf("create content reloader: %w", err)
	}
	a.reloader = rl

	addr := net.JoinHostPort(host, strconv.Itoa(cfg.Dev.Port))
	webSrv, err := web.NewServer(ctx, addr, store, m)
	if err != nil {
		return nil, fmt.Errorf("create dev server on %s: %w", addr, err)
	}
	a.webServer = webSrv

	for _, src := range registry.Sources() {
		log.Debug().
			Str("collection", src.Name).
			Str("base", src.Base).
			Str("pattern", src.Pattern).
			Msg("Watching collection")
	}

	log.Info().
		Str("output", cfg.Output).
		Str("image_service", cfg.Adapter.ImageService).
		Str("assets_binding", cfg.Adapter.Assets.Binding).
		Bool("platform_proxy", cfg.PlatformProxyEnabled()).
		Msg("Dev watcher configured")

	return a, nil
}

// LoadOptions derives collection load options from configuration.
func LoadOptions(cfg *config.Config) content.LoadOptions {
	return content.LoadOptions{
		Concurrency: cfg.Content.Concurrency,
		FailFast:    cfg.Content.FailFast,
	}
}

// Run builds content once, starts the dev server and watches for changes
// until the context is canceled. A failing initial build is logged, not fatal.
func (a *App) Run(ctx context.Context) error {
	if err := a.rebuild(ctx); err != nil && !errors.Is(err, build.ErrBuildFailed) {
		if cerr := a.webServer.Shutdown(context.Background()); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to release dev server listener")
		}
		return fmt.Errorf("initial build: %w", err)
	}

	a.webServer.Start()
	log.Info().Str("addr", a.webServer.Addr()).Msg("decksite dev watcher started")

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("content watcher: %w", err)
	}

	log.Info().Msg("decksite dev watcher stopped")
	return nil
}

// Store returns the snapshot store served by the dev server.
func (a *App) Store() *build.Store {
	return a.store
}

func (a *App) rebuild(ctx context.Context) error {
	snap, err := a.builder.Run(ctx)
	a.store.Record(snap)

	if snap != nil {
		for _, de := range snap.Failures {
			for _, f := range de.Fields {
				log.Error().
					Str("collection", de.Collection).
					Str("file", de.File).
					Str("field", f.Field).
					Msg(f.Message)
			}
		}
	}

	return err
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	if a.webServer == nil {
		return nil
	}
	if err := a.webServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown dev server: %w", err)
	}
	return nil
}
