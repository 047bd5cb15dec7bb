// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"fmt"
	"iter"
)

// orderGroup is one order's item list in first-appearance order.
type orderGroup struct {
	orderID int64
	items   []int64
}

// groupByOrder collects the log into per-order item lists, preserving both
// the first-appearance order of orders and the entry order within each
// order. Orders need not be contiguous in the log.
func groupByOrder(log Log) []orderGroup {
	index := make(map[int64]int, len(log))
	groups := make([]orderGroup, 0)

	for _, e := range log {
		i, ok := index[e.OrderID]
		if !ok {
			i = len(groups)
			index[e.OrderID] = i
			groups = append(groups, orderGroup{orderID: e.OrderID})
		}
		groups[i].items = append(groups[i].items, e.ItemID)
	}
	return groups
}

// Pairs returns a forward-only sequence of every 2-combination of items
// within each order of the log. An order with k items yields C(k,2) pairs
// in canonical orientation; orders with fewer than two items yield nothing.
// Only one order's item list is walked at a time, so the sequence never
// materializes the full cross-product.
//
// The sequence is restartable: ranging over it again replays the same
// pairs in the same order.
func Pairs(log Log) (iter.Seq[Pair], error) {
	if len(log) == 0 {
		return nil, fmt.Errorf("generate pairs: empty transaction log: %w", ErrInvalidInput)
	}

	groups := groupByOrder(log)
	return func(yield func(Pair) bool) {
		for _, g := range groups {
			for i := 0; i < len(g.items); i++ {
				for j := i + 1; j < len(g.items); j++ {
					if !yield(NewPair(g.items[i], g.items[j])) {
						return
					}
				}
			}
		}
	}, nil
}

// CountPairs aggregates a pair sequence into co-occurrence counts by
// canonical pair.
func CountPairs(pairs iter.Seq[Pair]) map[Pair]int {
	counts := make(map[Pair]int)
	for p := range pairs {
		counts[p]++
	}
	return counts
}
