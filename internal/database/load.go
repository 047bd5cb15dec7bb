// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/metrics"
)

// LoadTransactions reads the full transaction log ordered by ingest
// sequence, so repeated loads produce the same row order.
func (db *DB) LoadTransactions(ctx context.Context) (basket.Log, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT order_id, item_id FROM orders ORDER BY seq`)
	metrics.ObserveQuery("select", "orders", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var log basket.Log
	for rows.Next() {
		var e basket.Entry
		if err := rows.Scan(&e.OrderID, &e.ItemID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		log = append(log, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return log, nil
}

// LoadCatalog reads the product catalog as an item ID to name map.
func (db *DB) LoadCatalog(ctx context.Context) (map[int64]string, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT item_id, item_name FROM products`)
	metrics.ObserveQuery("select", "products", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	catalog := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		catalog[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}
	return catalog, nil
}

// CountOrders returns the number of distinct transactions in the log.
func (db *DB) CountOrders(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT order_id) FROM orders`).Scan(&n)
	metrics.ObserveQuery("select", "orders", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
