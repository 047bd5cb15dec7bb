// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/metrics"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ReplaceRecommendations atomically swaps the recommendations table for
// the output of a new mining run. Readers see either the old artifact or
// the new one, never a mix.
func (db *DB) ReplaceRecommendations(ctx context.Context, rows []basket.RecommendationRow) error {
	db.artifactMu.Lock()
	defer db.artifactMu.Unlock()

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.ObserveQuery("replace", "recommendations", start, err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations`); err != nil {
		metrics.ObserveQuery("replace", "recommendations", start, err)
		return fmt.Errorf("failed to clear recommendations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO recommendations (item_name, rec_1, rec_2, rec_3, rec_4, rec_5)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		metrics.ObserveQuery("replace", "recommendations", start, err)
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		r := row.Recommendations
		if _, err := stmt.ExecContext(ctx, row.ItemName, r[0], r[1], r[2], r[3], r[4]); err != nil {
			metrics.ObserveQuery("replace", "recommendations", start, err)
			return fmt.Errorf("failed to insert recommendations for %q: %w", row.ItemName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.ObserveQuery("replace", "recommendations", start, err)
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}
	metrics.ObserveQuery("replace", "recommendations", start, nil)
	return nil
}

// GetRecommendation looks up the stored recommendation row for an item
// name. Matching is case-insensitive. Returns ErrNotFound when the item
// has no stored recommendations.
func (db *DB) GetRecommendation(ctx context.Context, itemName string) (basket.RecommendationRow, error) {
	start := time.Now()
	var row basket.RecommendationRow
	err := db.conn.QueryRowContext(ctx,
		`SELECT item_name, rec_1, rec_2, rec_3, rec_4, rec_5
		 FROM recommendations WHERE lower(item_name) = lower(?)`,
		itemName).Scan(
		&row.ItemName,
		&row.Recommendations[0],
		&row.Recommendations[1],
		&row.Recommendations[2],
		&row.Recommendations[3],
		&row.Recommendations[4],
	)
	metrics.ObserveQuery("select", "recommendations", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return basket.RecommendationRow{}, ErrNotFound
	}
	if err != nil {
		return basket.RecommendationRow{}, fmt.Errorf("failed to look up recommendations for %q: %w", itemName, err)
	}
	return row, nil
}

// ListRecommendations returns all stored recommendation rows ordered by
// item name.
func (db *DB) ListRecommendations(ctx context.Context) ([]basket.RecommendationRow, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT item_name, rec_1, rec_2, rec_3, rec_4, rec_5
		 FROM recommendations ORDER BY item_name`)
	metrics.ObserveQuery("select", "recommendations", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []basket.RecommendationRow
	for rows.Next() {
		var row basket.RecommendationRow
		if err := rows.Scan(
			&row.ItemName,
			&row.Recommendations[0],
			&row.Recommendations[1],
			&row.Recommendations[2],
			&row.Recommendations[3],
			&row.Recommendations[4],
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return out, nil
}

// SaveScore records an evaluation run's mean score with the parameters
// that produced it.
func (db *DB) SaveScore(ctx context.Context, score, minSupport, trainFraction float64) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO evaluation_scores (score, min_support, train_fraction)
		 VALUES (?, ?, ?)`,
		score, minSupport, trainFraction)
	metrics.ObserveQuery("insert", "evaluation_scores", start, err)
	if err != nil {
		return fmt.Errorf("failed to save evaluation score: %w", err)
	}
	return nil
}

// LatestScore returns the most recently recorded evaluation score.
// Returns ErrNotFound when no evaluation has run yet.
func (db *DB) LatestScore(ctx context.Context) (float64, error) {
	start := time.Now()
	var score float64
	err := db.conn.QueryRowContext(ctx,
		`SELECT score FROM evaluation_scores ORDER BY scored_at DESC, id DESC LIMIT 1`).Scan(&score)
	metrics.ObserveQuery("select", "evaluation_scores", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load latest score: %w", err)
	}
	return score, nil
}
