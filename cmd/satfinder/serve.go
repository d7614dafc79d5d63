package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/api"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/cache"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/config"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/metrics"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/visibility"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()
			return runServe(cfg, logger)
		},
	}
}

// newCatalog wires the TLE plumbing shared by serve and the one-shot
// commands.
func newCatalog(cfg config.Config, logger *slog.Logger) (*tle.Manager, *tle.Store) {
	store := tle.NewStore()
	urls := append([]string{}, cfg.TLE.ExtraURLs...)
	if cfg.TLE.SourceURL != "" {
		urls = append([]string{cfg.TLE.SourceURL}, urls...)
	}
	fetcher := tle.NewFetcher(logger, urls...)
	logger.Info("catalog sources", "urls", fetcher.SourceURLs())
	diskCache := tle.NewCache(cfg.TLE.CacheDir, 5)
	return tle.NewManager(store, fetcher, diskCache, cfg.TLE.MaxAge, logger), store
}

func newEngine(cfg config.Config, store *tle.Store, logger *slog.Logger) *visibility.Engine {
	return visibility.NewEngine(store, visibility.Config{
		SunlitStep:         cfg.Search.SunlitStep,
		TrackStep:          cfg.Search.TrackStep,
		Workers:            cfg.Search.Workers,
		ExclusionPattern:   cfg.Search.ExclusionPattern,
		StrictSunlitWindow: cfg.Search.StrictSunlitWindow,
	}, logger)
}

func runServe(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager, store := newCatalog(cfg, logger)
	res := manager.Load(ctx)
	if res.Freshness == tle.Unavailable {
		// The server still starts; /readyz stays unready until a reload
		// succeeds.
		logger.Warn("starting without catalog data", "error", res.Err)
	}

	engine := newEngine(cfg, store, logger)
	results, err := cache.New(cfg.Cache.Size, logger)
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg.HTTP.Addr, engine, manager, results, cfg, logger)

	// Keep the catalog gauges current.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if snap := store.Get(); snap != nil {
					metrics.SetCatalog(len(snap.Satellites), store.AgeSeconds())
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", cfg.HTTP.Addr,
			"auth_enabled", cfg.Auth.Enabled,
			"catalog", res.Freshness.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
