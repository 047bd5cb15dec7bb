// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import "fmt"

// BuildRecommendations reduces a name-joined, lift-ordered rule set into a
// per-item recommendation table. For each item appearing as the target (B)
// side of at least one rule, the row holds its topN highest-lift partners;
// unfilled slots carry the Unavailable sentinel. Items with no incoming
// rules simply produce no row.
//
// Rows appear in first-occurrence order of their target within the sorted
// rule set, which keeps the table ordering reproducible. The input must
// already be sorted (AssociationRules output order) and name-joined.
func BuildRecommendations(rules []Rule, topN int) ([]RecommendationRow, error) {
	if topN < 1 || topN > MaxRecommendations {
		return nil, fmt.Errorf("build recommendations: top-n %d outside [1,%d]: %w",
			topN, MaxRecommendations, ErrInvalidInput)
	}

	rowIndex := make(map[string]int, len(rules))
	filled := make(map[string]int, len(rules))
	rows := make([]RecommendationRow, 0)

	for _, r := range rules {
		if r.NameA == "" || r.NameB == "" {
			return nil, fmt.Errorf("build recommendations: rule (%d,%d) has no joined names: %w",
				r.ItemA, r.ItemB, ErrInvalidInput)
		}
		// A real item named like the sentinel would make padded slots
		// indistinguishable from recommendations.
		if r.NameA == Unavailable || r.NameB == Unavailable {
			return nil, fmt.Errorf("build recommendations: catalog contains item named %q: %w",
				Unavailable, ErrInvalidInput)
		}

		i, ok := rowIndex[r.NameB]
		if !ok {
			i = len(rows)
			rowIndex[r.NameB] = i
			row := RecommendationRow{ItemName: r.NameB}
			for s := range row.Recommendations {
				row.Recommendations[s] = Unavailable
			}
			rows = append(rows, row)
		}

		if filled[r.NameB] < topN {
			rows[i].Recommendations[filled[r.NameB]] = r.NameA
			filled[r.NameB]++
		}
	}

	return rows, nil
}

// RecommendationIndex maps each target item name to its row for O(1)
// lookup during evaluation and serving.
func RecommendationIndex(rows []RecommendationRow) map[string]RecommendationRow {
	index := make(map[string]RecommendationRow, len(rows))
	for _, row := range rows {
		index[row.ItemName] = row
	}
	return index
}
