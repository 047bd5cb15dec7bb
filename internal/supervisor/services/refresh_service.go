// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher re-runs the mining pipeline and swaps the stored artifact.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshService re-mines recommendations on a fixed interval so the
// served artifact tracks newly ingested orders. A failed run is logged
// and retried at the next tick; the previous artifact stays in place.
type RefreshService struct {
	refresher Refresher
	interval  time.Duration
	logger    zerolog.Logger
	name      string
}

// NewRefreshService creates a scheduled refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(refresher Refresher, interval time.Duration, logger zerolog.Logger) *RefreshService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RefreshService{
		refresher: refresher,
		interval:  interval,
		logger:    logger.With().Str("service", "refresh").Logger(),
		name:      "analysis-refresh",
	}
}

// Serve implements suture.Service. It runs one refresh immediately, then
// on every interval tick until the context is canceled.
func (s *RefreshService) Serve(ctx context.Context) error {
	if err := s.refresher.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error().Err(err).Msg("Initial refresh failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.refresher.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Error().Err(err).Msg("Scheduled refresh failed")
				continue
			}
			s.logger.Info().Dur("duration", time.Since(start)).Msg("Scheduled refresh complete")
		}
	}
}

// String identifies the service in suture log messages.
func (s *RefreshService) String() string {
	return s.name
}
