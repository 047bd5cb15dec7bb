// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package metrics exposes Prometheus instrumentation for the mining
// pipeline, the API, and DuckDB access.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analysis pipeline metrics
	AnalysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketry_analysis_runs_total",
			Help: "Total number of mining runs by outcome",
		},
		[]string{"outcome"}, // "success", "error"
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basketry_analysis_duration_seconds",
			Help:    "Duration of full mining runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)

	RulesMined = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basketry_rules_mined",
			Help: "Number of association rules produced by the last run",
		},
	)

	RecommendationRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basketry_recommendation_rows",
			Help: "Number of items with recommendations after the last run",
		},
	)

	EvaluationScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basketry_evaluation_score",
			Help: "Most recent held-out evaluation score in [0,1]",
		},
	)

	EvaluationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketry_evaluation_runs_total",
			Help: "Total number of evaluation runs by outcome",
		},
		[]string{"outcome"},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basketry_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketry_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketry_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basketry_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	RecommendationLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketry_recommendation_lookups_total",
			Help: "Total recommendation lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)
)

// ObserveQuery records one database query.
func ObserveQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// ObserveRequest records one API request.
func ObserveRequest(endpoint, method string, status int, start time.Time) {
	APIRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
}

// ObserveAnalysis records the outcome of one mining run.
func ObserveAnalysis(start time.Time, rules, rows int, err error) {
	AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		AnalysisRunsTotal.WithLabelValues("error").Inc()
		return
	}
	AnalysisRunsTotal.WithLabelValues("success").Inc()
	RulesMined.Set(float64(rules))
	RecommendationRows.Set(float64(rows))
}

// ObserveEvaluation records the outcome of one evaluation run.
func ObserveEvaluation(score float64, err error) {
	if err != nil {
		EvaluationRunsTotal.WithLabelValues("error").Inc()
		return
	}
	EvaluationRunsTotal.WithLabelValues("success").Inc()
	EvaluationScore.Set(score)
}
