// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import "fmt"

// ComputeFrequency counts log entries per item. Because each (order, item)
// row is a single occurrence, the counts sum to the total number of log
// entries exactly.
func ComputeFrequency(log Log) (map[int64]int, error) {
	if len(log) == 0 {
		return nil, fmt.Errorf("compute frequency: empty transaction log: %w", ErrInvalidInput)
	}

	freq := make(map[int64]int)
	for _, e := range log {
		freq[e.ItemID]++
	}
	return freq, nil
}

// ComputeSupport derives a stats table from an item frequency table.
// Support is each item's frequency divided by the number of distinct
// orders in the log, expressed as a percentage.
func ComputeSupport(log Log, freq map[int64]int) (StatsTable, error) {
	if len(freq) == 0 {
		return nil, fmt.Errorf("compute support: empty frequency table: %w", ErrInvalidInput)
	}

	orders := distinctOrderCount(log)
	if orders == 0 {
		// Zero distinct orders would divide by zero below.
		return nil, fmt.Errorf("compute support: no transactions in log: %w", ErrInvalidInput)
	}

	stats := make(StatsTable, len(freq))
	for item, f := range freq {
		stats[item] = ItemStats{
			Freq:    f,
			Support: float64(f) / float64(orders) * 100,
		}
	}
	return stats, nil
}

// computeStats is the frequency + support composition used at both ends of
// the filtering pipeline.
func computeStats(log Log) (StatsTable, error) {
	freq, err := ComputeFrequency(log)
	if err != nil {
		return nil, err
	}
	return ComputeSupport(log, freq)
}

// distinctOrderCount returns the number of distinct order identifiers in
// the log.
func distinctOrderCount(log Log) int {
	seen := make(map[int64]struct{}, len(log))
	for _, e := range log {
		seen[e.OrderID] = struct{}{}
	}
	return len(seen)
}
