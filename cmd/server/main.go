// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/sonograph/docs" // generated swagger docs
	"github.com/tomtom215/sonograph/internal/api"
	"github.com/tomtom215/sonograph/internal/cache"
	"github.com/tomtom215/sonograph/internal/config"
	"github.com/tomtom215/sonograph/internal/gate"
	"github.com/tomtom215/sonograph/internal/graph"
	"github.com/tomtom215/sonograph/internal/lastfm"
	"github.com/tomtom215/sonograph/internal/logging"
	"github.com/tomtom215/sonograph/internal/playlist"
	"github.com/tomtom215/sonograph/internal/supervisor"
	"github.com/tomtom215/sonograph/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Sonograph stopped with an error")
	}
	logging.Info().Msg("Sonograph stopped")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Str("cache_backend", cfg.Cache.Backend).
		Dur("gate_interval", cfg.Gate.MinInterval).
		Bool("playlists", cfg.Playlist.Enabled).
		Msg("Starting Sonograph")

	store, err := cache.Open(cache.Options{
		Backend:    cfg.Cache.Backend,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
		Path:       cfg.Cache.Path,
	})
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	requestGate := gate.New(gate.Options{
		MinInterval: cfg.Gate.MinInterval,
		Cooldown:    cfg.Gate.Cooldown,
		MaxRetries:  cfg.Gate.MaxRetries,
		IsThrottled: lastfm.IsRateLimited,
	})
	client := lastfm.NewClient(&cfg.LastFM, requestGate, store)
	builder := graph.NewBuilder(client, graph.OptionsFromConfig(&cfg.Graph))

	deps := api.Dependencies{
		Builder:  builder,
		Upstream: client,
		Gate:     requestGate,
	}
	if cfg.Playlist.Enabled {
		deps.Playlists = playlist.NewSpotifyClient(&cfg.Playlist)
	} else {
		logging.Info().Msg("Playlist creation disabled")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Inbound rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}
	if cfg.IsProduction() && len(cfg.Security.CORSOrigins) == 1 && cfg.Security.CORSOrigins[0] == "*" {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to the frontend's origin")
	}

	handler := api.NewHandler(cfg, deps)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddUpstreamService(requestGate)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(services.NewCacheMaintenanceService(store, cfg.Cache.MaintenanceInterval))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Supervisor tree starting")
	err = tree.Serve(ctx)

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}
