// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/basketry/internal/metrics"
)

// quotePath escapes a filesystem path for embedding in a DuckDB string
// literal. DuckDB does not support bound parameters inside read_csv_auto
// or COPY targets.
func quotePath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

// IngestOrdersCSV bulk-loads a transaction log CSV into the orders table.
// The file must carry order_id and item_id columns. Rows are appended in
// file order so the assigned seq values preserve it. Returns the number
// of rows loaded.
func (db *DB) IngestOrdersCSV(ctx context.Context, path string) (int64, error) {
	start := time.Now()
	query := fmt.Sprintf(
		`INSERT INTO orders (order_id, item_id)
		 SELECT order_id, item_id FROM read_csv_auto(%s, header=true)`,
		quotePath(path))

	res, err := db.conn.ExecContext(ctx, query)
	metrics.ObserveQuery("ingest", "orders", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to ingest orders from %s: %w", path, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read ingest row count: %w", err)
	}
	return rows, nil
}

// IngestProductsCSV bulk-loads a product catalog CSV into the products
// table. The file must carry item_id and item_name columns. Existing
// rows with the same item_id are replaced.
func (db *DB) IngestProductsCSV(ctx context.Context, path string) (int64, error) {
	start := time.Now()
	query := fmt.Sprintf(
		`INSERT OR REPLACE INTO products (item_id, item_name)
		 SELECT item_id, item_name FROM read_csv_auto(%s, header=true)`,
		quotePath(path))

	res, err := db.conn.ExecContext(ctx, query)
	metrics.ObserveQuery("ingest", "products", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to ingest products from %s: %w", path, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read ingest row count: %w", err)
	}
	return rows, nil
}

// ExportRecommendationsCSV writes the current recommendations table to a
// CSV file with a header row.
func (db *DB) ExportRecommendationsCSV(ctx context.Context, path string) error {
	start := time.Now()
	query := fmt.Sprintf(
		`COPY (SELECT item_name, rec_1, rec_2, rec_3, rec_4, rec_5
		       FROM recommendations ORDER BY item_name)
		 TO %s (HEADER, DELIMITER ',')`,
		quotePath(path))

	_, err := db.conn.ExecContext(ctx, query)
	metrics.ObserveQuery("export", "recommendations", start, err)
	if err != nil {
		return fmt.Errorf("failed to export recommendations to %s: %w", path, err)
	}
	return nil
}
