// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package main is the entry point for the MovieDealer server.
//
// MovieDealer serves an adaptive movie card game: each session deals a
// hand of movie cards from the TMDB catalog, learns the player's genre
// preferences from keeps and discards, and resolves a streamable winner
// when the player stands.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (env over file over defaults)
//  2. Ledger: BadgerDB seen-history store, or in-memory when no path is set
//  3. Catalog: TMDB client behind a rate limiter and circuit breaker
//  4. Sessions: registry of per-UUID game engines
//  5. Supervisor tree: state feed hub, ledger GC, HTTP server
//
// # Configuration
//
// Environment variables use the MOVIEDEALER_ prefix, e.g.
//
//	export MOVIEDEALER_TMDB_API_KEY=your-tmdb-key
//	export MOVIEDEALER_SERVER_PORT=8080
//	export MOVIEDEALER_LEDGER_PATH=/var/lib/moviedealer
//	./moviedealer
//
// Without a ledger path the seen history and win streak live in memory
// and reset on restart. Without a TMDB key every deal uses the built-in
// fallback deck.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the HTTP server stops
// accepting connections, in-flight requests drain within the shutdown
// timeout, and the websocket feed closes its clients.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmoralez/moviedealer/internal/api"
	"github.com/nmoralez/moviedealer/internal/config"
	"github.com/nmoralez/moviedealer/internal/ledger"
	"github.com/nmoralez/moviedealer/internal/logging"
	"github.com/nmoralez/moviedealer/internal/pool"
	"github.com/nmoralez/moviedealer/internal/supervisor"
	"github.com/nmoralez/moviedealer/internal/supervisor/services"
	"github.com/nmoralez/moviedealer/internal/tmdb"
	ws "github.com/nmoralez/moviedealer/internal/websocket"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting MovieDealer")

	// Ledger: Badger when a path is configured, otherwise in-memory.
	var (
		store       ledger.Store
		badgerStore *ledger.BadgerStore
	)
	if cfg.Ledger.Path != "" {
		badgerStore, err = ledger.OpenBadger(cfg.Ledger.Path, cfg.Game.SeenCap)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Ledger.Path).Msg("Failed to open ledger database")
		}
		defer func() {
			if err := badgerStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing ledger database")
			}
		}()
		store = badgerStore
		logging.Info().Str("path", cfg.Ledger.Path).Msg("Ledger database opened")
	} else {
		store = ledger.NewMemoryStore(cfg.Game.SeenCap)
		logging.Warn().Msg("No ledger path configured, seen history is in-memory only")
	}

	// Catalog provider behind rate limiter and circuit breaker.
	provider := tmdb.NewCircuitBreakerClient(&cfg.TMDB)
	if cfg.TMDB.APIKey == "" {
		logging.Warn().Msg("No TMDB API key configured, deals will use the fallback deck")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	adapter := pool.NewAdapter(provider, &cfg.Game, cfg.TMDB.ImageBaseURL, rng)
	checker := tmdb.NewAvailabilityChecker(provider, cfg.TMDB.Region)

	hub := ws.NewHub()
	sessions := api.NewSessionRegistry(&cfg.Game, adapter, checker, store)
	handler := api.NewHandler(sessions, hub, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.MiddlewareConfigFromServer(&cfg.Server)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// No WriteTimeout: websocket connections are long-lived.
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	slogLogger := slog.New(logging.NewSlogHandler())

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewTree(slogLogger, treeConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if badgerStore != nil {
		tree.AddDataService(services.NewLedgerGCService(badgerStore, cfg.Ledger.GCInterval))
		logging.Info().Dur("interval", cfg.Ledger.GCInterval).Msg("Ledger GC service added")
	}
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
