// Package app wires one scraper run: resolve credentials, query slots, render the table.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"slotscraper/config"
	"slotscraper/internal/cache"
	"slotscraper/internal/core"
	"slotscraper/internal/credentials"
	"slotscraper/internal/logging"
	"slotscraper/internal/markup"
	"slotscraper/internal/platform"
	"slotscraper/internal/render"
)

// App holds the collaborators of a run
type App struct {
	store       cache.Store
	platform    core.BookingPlatform
	credentials core.CredentialResolver
	renderer    *render.Renderer
	clock       core.Clock
	logger      *slog.Logger
}

// New builds an App from configuration. The caller must Close it.
func New(ctx context.Context, cfg *config.Config, clock core.Clock, logger *slog.Logger) (*App, error) {
	if clock == nil {
		clock = core.RealClock{}
	}

	location, err := cfg.Display.Location()
	if err != nil {
		return nil, err
	}

	renderer, err := render.NewRenderer(cfg.Display.Locale, location)
	if err != nil {
		return nil, err
	}

	extractor, err := markup.NewExtractor(markup.DefaultSelectors())
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	bookingPlatform := logging.NewPlatformLogger(platform.NewClient(platform.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTP.Timeout(),
	}), logger)

	manager := credentials.NewManager(
		cache.NewModelCache(store, nil),
		bookingPlatform,
		extractor,
		core.NewResolver(location),
		clock,
		logger,
	)

	return &App{
		store:       store,
		platform:    bookingPlatform,
		credentials: logging.NewResolverLogger(manager, logger),
		renderer:    renderer,
		clock:       clock,
		logger:      logger,
	}, nil
}

// Run prints the slots of the doctor at profileURL for the next weeks to w
func (a *App) Run(ctx context.Context, profileURL string, weeks int, w io.Writer) error {
	query, err := core.NewQueryParams(a.clock.Now(), weeks)
	if err != nil {
		return err
	}

	creds, err := a.credentials.Resolve(ctx, profileURL)
	if err != nil {
		return fmt.Errorf("failed to resolve credentials: %w", err)
	}

	slots, err := a.platform.GetSlots(ctx, core.SlotsRequest{
		ProfileURL: profileURL,
		Token:      creds.Token.Token,
		Params:     *creds.Params,
		Query:      query,
	})
	if err != nil {
		return fmt.Errorf("failed to get slots: %w", err)
	}

	return a.renderer.Render(w, slots)
}

// Close releases the cache store
func (a *App) Close() error {
	return a.store.Close()
}
