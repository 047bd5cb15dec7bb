// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package api provides the HTTP surface for recommendation lookup,
// session baskets, and pipeline triggers, routed with Chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/config"
)

// Router wires handlers and middleware into an http.Handler
type Router struct {
	cfg     *config.Config
	handler *Handler
}

// NewRouter creates a router for the given configuration and backends
func NewRouter(cfg *config.Config, store Store, analyzer *basket.Analyzer) *Router {
	return &Router{
		cfg:     cfg,
		handler: NewHandler(store, analyzer),
	}
}

// Setup configures all HTTP routes
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(&router.cfg.Security))

	// Health endpoints stay outside the rate limiter so monitoring
	// probes never get throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimitMiddleware(&router.cfg.Security))
		r.Use(metricsMiddleware)

		r.Get("/recommendations", router.handler.ListRecommendations)
		r.Get("/recommendations/{item}", router.handler.GetRecommendation)

		r.Post("/analysis/run", router.handler.RunAnalysis)
		r.Post("/evaluation/run", router.handler.RunEvaluation)
		r.Get("/evaluation/score", router.handler.LatestScore)

		r.Route("/baskets", func(r chi.Router) {
			r.Post("/", router.handler.CreateBasket)
			r.Get("/{session}", router.handler.GetBasket)
			r.Post("/{session}/items", router.handler.AddBasketItem)
			r.Delete("/{session}", router.handler.ResetBasket)
		})
	})

	return r
}
