// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Config holds the tunable parameters of a mining run.
type Config struct {
	// MinSupport is the minimum percentage of transactions an item or
	// pair must appear in to be retained (0.01 means 0.01%).
	MinSupport float64 `koanf:"min_support"`

	// TopN is the number of recommendations per item, at most
	// MaxRecommendations.
	TopN int `koanf:"top_n"`

	// TrainFraction is the leading share of log rows used for training
	// during evaluation.
	TrainFraction float64 `koanf:"train_fraction"`
}

// DefaultConfig returns the standard mining parameters.
func DefaultConfig() *Config {
	return &Config{
		MinSupport:    0.01,
		TopN:          MaxRecommendations,
		TrainFraction: 0.8,
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.MinSupport < 0 {
		return fmt.Errorf("min_support must be >= 0, got %v", c.MinSupport)
	}
	if c.TopN < 1 || c.TopN > MaxRecommendations {
		return fmt.Errorf("top_n must be in [1,%d], got %d", MaxRecommendations, c.TopN)
	}
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return fmt.Errorf("train_fraction must be in (0,1), got %v", c.TrainFraction)
	}
	return nil
}

// Analyzer runs the mining and evaluation pipelines with structured
// progress logging. It holds no state between runs; every invocation is
// idempotent and independent.
type Analyzer struct {
	cfg    *Config
	logger zerolog.Logger
}

// NewAnalyzer creates an analyzer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAnalyzer(cfg *Config, logger zerolog.Logger) (*Analyzer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}
	return &Analyzer{
		cfg:    cfg,
		logger: logger.With().Str("component", "basket").Logger(),
	}, nil
}

// Config returns a copy of the analyzer's configuration.
func (a *Analyzer) Config() Config {
	return *a.cfg
}

// Rules mines the name-joined association rule set from the log.
func (a *Analyzer) Rules(ctx context.Context, log Log, catalog map[int64]string) ([]Rule, error) {
	a.logger.Info().
		Int("entries", len(log)).
		Float64("min_support", a.cfg.MinSupport).
		Msg("Mining association rules")

	rules, err := AssociationRules(log, a.cfg.MinSupport)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Could not mine association rules")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	joined, err := JoinNames(rules, catalog)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Could not join item names onto rules")
		return nil, err
	}

	a.logger.Info().Int("rules", len(joined)).Msg("Association rules mined")
	return joined, nil
}

// Recommendations runs the full analysis pipeline and returns the
// per-item recommendation table.
func (a *Analyzer) Recommendations(ctx context.Context, log Log, catalog map[int64]string) ([]RecommendationRow, error) {
	rules, err := a.Rules(ctx, log, catalog)
	if err != nil {
		return nil, err
	}
	return a.Reduce(rules)
}

// Reduce turns an already-mined rule set into the recommendation table.
// Callers that need both the rules and the table use this to avoid
// mining twice.
func (a *Analyzer) Reduce(rules []Rule) ([]RecommendationRow, error) {
	rows, err := BuildRecommendations(rules, a.cfg.TopN)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Could not reduce rules to recommendations")
		return nil, err
	}

	a.logger.Info().Int("items", len(rows)).Msg("Recommendation table built")
	return rows, nil
}

// Evaluate scores the mined rules against the held-out tail of the log
// and returns the mean per-order score.
func (a *Analyzer) Evaluate(ctx context.Context, log Log, catalog map[int64]string) (float64, error) {
	a.logger.Info().
		Int("entries", len(log)).
		Float64("train_fraction", a.cfg.TrainFraction).
		Msg("Evaluating recommendation quality")

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	score, err := Evaluate(log, catalog, a.cfg.MinSupport, a.cfg.TrainFraction, a.cfg.TopN)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Could not evaluate recommendations")
		return 0, err
	}

	a.logger.Info().Float64("score", score).Msg("Evaluation complete")
	return score, nil
}
