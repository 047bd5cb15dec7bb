// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package main is the entry point for the Basketry server.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (env, config file, defaults)
//  2. Database: DuckDB holding orders, products, and artifacts
//  3. HTTP server: recommendation lookup, session baskets, pipeline triggers
//  4. Supervisor tree: suture-managed HTTP server and optional scheduled
//     re-mining (SERVER_REFRESH_INTERVAL)
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests (10s timeout), and
// closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/api"
	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/config"
	"github.com/tomtom215/basketry/internal/database"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
	"github.com/tomtom215/basketry/internal/supervisor"
	"github.com/tomtom215/basketry/internal/supervisor/services"
)

// artifactRefresher re-mines the stored transaction log and swaps the
// recommendation artifact. It backs the scheduled refresh service.
type artifactRefresher struct {
	db       *database.DB
	analyzer *basket.Analyzer
}

func (r *artifactRefresher) Refresh(ctx context.Context) error {
	start := time.Now()

	log, err := r.db.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if len(log) == 0 {
		logging.Debug().Msg("Refresh skipped, no transactions ingested yet")
		return nil
	}
	catalog, err := r.db.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	rules, err := r.analyzer.Rules(ctx, log, catalog)
	if err != nil {
		metrics.ObserveAnalysis(start, 0, 0, err)
		return fmt.Errorf("refresh: %w", err)
	}
	rows, err := r.analyzer.Reduce(rules)
	if err != nil {
		metrics.ObserveAnalysis(start, len(rules), 0, err)
		return fmt.Errorf("refresh: %w", err)
	}
	if err := r.db.ReplaceRecommendations(ctx, rows); err != nil {
		metrics.ObserveAnalysis(start, len(rules), len(rows), err)
		return fmt.Errorf("refresh: %w", err)
	}

	metrics.ObserveAnalysis(start, len(rules), len(rows), nil)
	return nil
}

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Float64("min_support", cfg.Analysis.MinSupport).
		Int("top_n", cfg.Analysis.TopN).
		Msg("Starting Basketry server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	analyzer, err := basket.NewAnalyzer(&cfg.Analysis, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create analyzer")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, db, analyzer).Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// suture logs through slog; bridge it to the zerolog sink.
	slogger := slog.New(slogZerologHandler{logger: logging.Logger()})
	tree := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server added to supervisor tree")

	if cfg.Server.RefreshInterval > 0 {
		refresher := &artifactRefresher{db: db, analyzer: analyzer}
		tree.AddPipelineService(services.NewRefreshService(refresher, cfg.Server.RefreshInterval, logging.Logger()))
		logging.Info().Dur("interval", cfg.Server.RefreshInterval).Msg("Scheduled refresh enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

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

// slogZerologHandler forwards slog records to zerolog so supervisor
// events land in the same structured stream as everything else.
type slogZerologHandler struct {
	logger zerolog.Logger
}

func (h slogZerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h slogZerologHandler) Handle(_ context.Context, record slog.Record) error {
	var ev *zerolog.Event
	switch {
	case record.Level >= slog.LevelError:
		ev = h.logger.Error()
	case record.Level >= slog.LevelWarn:
		ev = h.logger.Warn()
	default:
		ev = h.logger.Info()
	}
	record.Attrs(func(attr slog.Attr) bool {
		ev = ev.Interface(attr.Key, attr.Value.Any())
		return true
	})
	ev.Msg(record.Message)
	return nil
}

func (h slogZerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	ctx := h.logger.With()
	for _, attr := range attrs {
		ctx = ctx.Interface(attr.Key, attr.Value.Any())
	}
	return slogZerologHandler{logger: ctx.Logger()}
}

func (h slogZerologHandler) WithGroup(name string) slog.Handler {
	return h
}
