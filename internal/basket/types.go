// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import "errors"

// ErrInvalidInput is the single error kind for malformed or unparseable
// input at any mining stage: wrong shape, empty collections that would
// cause a zero denominator, or failed catalog joins. Callers match it with
// errors.Is and are expected to abort the run.
var ErrInvalidInput = errors.New("invalid input")

// MaxRecommendations is the number of recommendation slots per item.
const MaxRecommendations = 5

// Unavailable marks an unfilled recommendation slot. It is part of the
// persisted artifact format and must never collide with a real item name;
// BuildRecommendations rejects catalogs that contain an item literally
// named "NA".
const Unavailable = "NA"

// Entry is one (order, item) row of the transaction log. Duplicate items
// within an order are legal and each appearance participates independently
// in pair generation.
type Entry struct {
	OrderID int64
	ItemID  int64
}

// Log is a transaction log: an ordered sequence of entries grouped by
// order identifier. Entry order within the log is significant for the
// evaluation split and for add-to-cart position scoring, not for mining.
type Log []Entry

// ItemStats holds per-item frequency and support. Support is a percentage
// of distinct transactions in [0, 100].
type ItemStats struct {
	Freq    int
	Support float64
}

// StatsTable maps item identifiers to their statistics.
type StatsTable map[int64]ItemStats

// Pair is an unordered item pair in canonical orientation (A < B). The
// canonical orientation guarantees that co-occurrences of the same two
// items always aggregate under one key.
type Pair struct {
	A int64
	B int64
}

// NewPair returns the canonical pair for two item identifiers.
func NewPair(x, y int64) Pair {
	if x > y {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Rule is a pairwise association rule. NameA and NameB are populated by
// JoinNames; they are empty on rules fresh out of AssociationRules.
type Rule struct {
	ItemA int64  `json:"item_a_id"`
	ItemB int64  `json:"item_b_id"`
	NameA string `json:"item_a,omitempty"`
	NameB string `json:"item_b,omitempty"`

	FreqAB    int     `json:"freq_ab"`
	SupportAB float64 `json:"support_ab"`
	FreqA     int     `json:"freq_a"`
	SupportA  float64 `json:"support_a"`
	FreqB     int     `json:"freq_b"`
	SupportB  float64 `json:"support_b"`

	ConfidenceAtoB float64 `json:"confidence_a_to_b"`
	ConfidenceBtoA float64 `json:"confidence_b_to_a"`
	Lift           float64 `json:"lift"`
}

// RecommendationRow is the per-item output of the recommendation reducer:
// a target item and up to MaxRecommendations partner item names ordered by
// descending lift, padded with Unavailable.
type RecommendationRow struct {
	ItemName        string                     `json:"item_name"`
	Recommendations [MaxRecommendations]string `json:"recommendations"`
}
