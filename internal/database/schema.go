// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
//
// orders carries a seq column assigned at ingest so the transaction log
// always loads in its original row order. The train/test split is
// positional, so reload order must be reproducible.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS orders_seq START 1`,
		`CREATE TABLE IF NOT EXISTS orders (
			seq BIGINT PRIMARY KEY DEFAULT nextval('orders_seq'),
			order_id BIGINT NOT NULL,
			item_id BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			item_id BIGINT PRIMARY KEY,
			item_name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			item_name TEXT PRIMARY KEY,
			rec_1 TEXT NOT NULL,
			rec_2 TEXT NOT NULL,
			rec_3 TEXT NOT NULL,
			rec_4 TEXT NOT NULL,
			rec_5 TEXT NOT NULL,
			generated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE SEQUENCE IF NOT EXISTS scores_seq START 1`,
		`CREATE TABLE IF NOT EXISTS evaluation_scores (
			id BIGINT PRIMARY KEY DEFAULT nextval('scores_seq'),
			score DOUBLE NOT NULL,
			min_support DOUBLE NOT NULL,
			train_fraction DOUBLE NOT NULL,
			scored_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_order_id ON orders(order_id)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}
