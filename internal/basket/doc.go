// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package basket implements pairwise association-rule mining over grouped
// purchase transactions.
//
// # Pipeline
//
// A mining run is a single batch computation over an in-memory transaction
// log:
//
//	transaction log -> item statistics -> pair generation -> rule building
//	                -> per-item top-N recommendation table
//
// Item statistics (frequency and support) are computed twice: once on the
// raw log to drive minimum-support filtering, and again on the filtered log
// because filtering changes both the item frequencies and the transaction
// count used as the support denominator. Pair support is always measured
// against the filtered transaction count.
//
// An independent evaluation path splits the log positionally into train and
// test portions, mines rules on the train portion only, and scores the
// recommendations against the items that actually follow within each test
// order.
//
// # Determinism
//
// Same inputs produce identical outputs. Rules are ordered by lift
// descending with ties broken by ascending (itemA, itemB) identifier pair,
// and recommendation rows inherit that ordering. No randomness is involved
// anywhere in the pipeline.
//
// # Error Handling
//
// Every malformed-input condition surfaces as an error wrapping
// ErrInvalidInput. No function returns a partial table alongside an error:
// callers either get a complete result or an error describing the failing
// stage.
//
// # Concurrency
//
// All functions are pure and operate on values; the package holds no shared
// mutable state. An Analyzer is safe for concurrent use because each call
// derives fresh tables from its inputs.
package basket
