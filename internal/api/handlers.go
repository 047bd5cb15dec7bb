// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/cache"
	"github.com/tomtom215/basketry/internal/database"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
)

// Store is the persistence surface the handlers need. *database.DB
// satisfies it; tests substitute a fake.
type Store interface {
	Ping(ctx context.Context) error
	LoadTransactions(ctx context.Context) (basket.Log, error)
	LoadCatalog(ctx context.Context) (map[int64]string, error)
	CountOrders(ctx context.Context) (int64, error)
	ReplaceRecommendations(ctx context.Context, rows []basket.RecommendationRow) error
	GetRecommendation(ctx context.Context, itemName string) (basket.RecommendationRow, error)
	ListRecommendations(ctx context.Context) ([]basket.RecommendationRow, error)
	SaveScore(ctx context.Context, score, minSupport, trainFraction float64) error
	LatestScore(ctx context.Context) (float64, error)
}

// Handler holds dependencies for all HTTP handlers
type Handler struct {
	store    Store
	analyzer *basket.Analyzer
	baskets  *BasketStore
	lookups  *cache.Cache
}

// NewHandler creates a handler backed by the given store and analyzer
func NewHandler(store Store, analyzer *basket.Analyzer) *Handler {
	return &Handler{
		store:    store,
		analyzer: analyzer,
		baskets:  NewBasketStore(),
		lookups:  cache.New(15 * time.Minute),
	}
}

// HealthLive reports process liveness
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady reports readiness, including database connectivity
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "database unavailable", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}

// GetRecommendation returns the stored top-5 recommendations for an
// item name. Lookup is case-insensitive; unknown items return 404.
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	itemName := chi.URLParam(r, "item")
	// Item names contain spaces, so the path segment arrives escaped.
	if unescaped, err := url.PathUnescape(itemName); err == nil {
		itemName = unescaped
	}
	if itemName == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "item name is required", nil)
		return
	}

	key := cache.GenerateKey("recommendation", strings.ToLower(itemName))
	if cached, ok := h.lookups.Get(key); ok {
		metrics.RecommendationLookupsTotal.WithLabelValues("hit").Inc()
		respondData(w, http.StatusOK, cached.(basket.RecommendationRow), start)
		return
	}

	row, err := h.store.GetRecommendation(r.Context(), itemName)
	if errors.Is(err, database.ErrNotFound) {
		metrics.RecommendationLookupsTotal.WithLabelValues("miss").Inc()
		respondError(w, http.StatusNotFound, "NOT_FOUND", "no recommendations available for this item", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LOOKUP_FAILED", "failed to look up recommendations", err)
		return
	}

	h.lookups.Set(key, row)
	metrics.RecommendationLookupsTotal.WithLabelValues("hit").Inc()
	respondData(w, http.StatusOK, row, start)
}

// ListRecommendations returns every stored recommendation row
func (h *Handler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rows, err := h.store.ListRecommendations(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LOOKUP_FAILED", "failed to list recommendations", err)
		return
	}
	if rows == nil {
		rows = []basket.RecommendationRow{}
	}
	respondData(w, http.StatusOK, rows, start)
}

// analysisResult is the response body for a completed mining run.
type analysisResult struct {
	Orders       int64 `json:"orders"`
	Rules        int   `json:"rules"`
	ItemsCovered int   `json:"items_covered"`
}

// RunAnalysis mines the stored transaction log and atomically replaces
// the recommendation artifact with the result.
func (h *Handler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logging.Ctx(ctx)

	txLog, err := h.store.LoadTransactions(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "ANALYSIS_FAILED", "failed to load transactions", err)
		return
	}
	catalog, err := h.store.LoadCatalog(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "ANALYSIS_FAILED", "failed to load catalog", err)
		return
	}

	rules, err := h.analyzer.Rules(ctx, txLog, catalog)
	if err != nil {
		metrics.ObserveAnalysis(start, 0, 0, err)
		if errors.Is(err, basket.ErrInvalidInput) {
			respondError(w, http.StatusUnprocessableEntity, "INVALID_DATA", err.Error(), err)
			return
		}
		respondError(w, http.StatusInternalServerError, "ANALYSIS_FAILED", "mining run failed", err)
		return
	}

	rows, err := h.analyzer.Reduce(rules)
	if err != nil {
		metrics.ObserveAnalysis(start, len(rules), 0, err)
		respondError(w, http.StatusInternalServerError, "ANALYSIS_FAILED", "mining run failed", err)
		return
	}

	if err := h.store.ReplaceRecommendations(ctx, rows); err != nil {
		metrics.ObserveAnalysis(start, len(rules), len(rows), err)
		respondError(w, http.StatusInternalServerError, "ANALYSIS_FAILED", "failed to store recommendations", err)
		return
	}
	metrics.ObserveAnalysis(start, len(rules), len(rows), nil)

	// The artifact changed; cached lookups are stale.
	h.lookups.Clear()

	orders, err := h.store.CountOrders(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count orders after analysis")
	}

	log.Info().
		Int("rules", len(rules)).
		Int("items_covered", len(rows)).
		Dur("duration", time.Since(start)).
		Msg("Mining run complete")

	respondData(w, http.StatusOK, analysisResult{
		Orders:       orders,
		Rules:        len(rules),
		ItemsCovered: len(rows),
	}, start)
}

// evaluationResult is the response body for a completed evaluation run.
type evaluationResult struct {
	Score         float64 `json:"score"`
	MinSupport    float64 `json:"min_support"`
	TrainFraction float64 `json:"train_fraction"`
}

// RunEvaluation runs a train/test evaluation over the stored log and
// records the resulting score.
func (h *Handler) RunEvaluation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	txLog, err := h.store.LoadTransactions(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "EVALUATION_FAILED", "failed to load transactions", err)
		return
	}
	catalog, err := h.store.LoadCatalog(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "EVALUATION_FAILED", "failed to load catalog", err)
		return
	}

	score, err := h.analyzer.Evaluate(ctx, txLog, catalog)
	metrics.ObserveEvaluation(score, err)
	if err != nil {
		if errors.Is(err, basket.ErrInvalidInput) {
			respondError(w, http.StatusUnprocessableEntity, "INVALID_DATA", err.Error(), err)
			return
		}
		respondError(w, http.StatusInternalServerError, "EVALUATION_FAILED", "evaluation run failed", err)
		return
	}

	cfg := h.analyzer.Config()
	if err := h.store.SaveScore(ctx, score, cfg.MinSupport, cfg.TrainFraction); err != nil {
		respondError(w, http.StatusInternalServerError, "EVALUATION_FAILED", "failed to save score", err)
		return
	}

	log := logging.Ctx(ctx)
	log.Info().
		Float64("score", score).
		Dur("duration", time.Since(start)).
		Msg("Evaluation run complete")

	respondData(w, http.StatusOK, evaluationResult{
		Score:         score,
		MinSupport:    cfg.MinSupport,
		TrainFraction: cfg.TrainFraction,
	}, start)
}

// LatestScore returns the most recently recorded evaluation score
func (h *Handler) LatestScore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	score, err := h.store.LatestScore(r.Context())
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "no evaluation has run yet", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LOOKUP_FAILED", "failed to load latest score", err)
		return
	}
	respondData(w, http.StatusOK, map[string]float64{"score": score}, start)
}
