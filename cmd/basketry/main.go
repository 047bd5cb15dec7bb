// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package main is the Basketry command line interface for running the
// mining pipeline without the server: ingest CSVs, mine recommendations,
// evaluate, and move artifacts to and from object storage.
package main

func main() {
	Execute()
}
