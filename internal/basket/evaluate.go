// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"fmt"
	"strconv"
)

// SplitTrainTest splits the log positionally: the leading trainFraction of
// entry rows become the train portion, the remainder the test portion. The
// split is row-wise, not order-wise, so an order straddling the boundary
// contributes entries to both sides. Given the same input ordering the
// split is fully deterministic; no shuffling is involved.
func SplitTrainTest(log Log, trainFraction float64) (train, test Log, err error) {
	if len(log) == 0 {
		return nil, nil, fmt.Errorf("train/test split: empty transaction log: %w", ErrInvalidInput)
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, nil, fmt.Errorf("train/test split: fraction %v outside (0,1): %w",
			trainFraction, ErrInvalidInput)
	}

	n := int(float64(len(log)) * trainFraction)
	return log[:n:n], log[n:], nil
}

// scoreNormalizer returns the maximum possible match count for an order in
// which numScored items received recommendations. Each scored item can be
// confirmed by at most the items after it, capped at MaxRecommendations
// per item; summing that cap over the order yields a truncated triangular
// number.
func scoreNormalizer(numScored int) int {
	count := 0
	m := numScored
	if m > MaxRecommendations {
		count = (numScored - MaxRecommendations) * MaxRecommendations
		m = MaxRecommendations
	}
	return count + m*(m+1)/2
}

// ScoreOrder scores a single test order against a recommendation index.
// Items are walked in add-to-cart order; for each item that has a
// recommendation row, the recommended partners are checked against the
// items at or after the current position. The second return value reports
// whether the order contained any scorable item at all. Orders without
// one carry no signal and must be excluded from the mean rather than
// scored as zero.
func ScoreOrder(order []string, index map[string]RecommendationRow) (float64, bool) {
	numScored := 0
	matches := 0

	for i, name := range order {
		row, ok := index[name]
		if !ok {
			continue
		}
		numScored++

		following := order[i:]
		for _, rec := range row.Recommendations {
			if rec == Unavailable {
				continue
			}
			for _, item := range following {
				if item == rec {
					matches++
					break
				}
			}
		}
	}

	if numScored == 0 {
		return 0, false
	}
	return float64(matches) / float64(scoreNormalizer(numScored)), true
}

// ScoreOrders returns the unweighted mean of per-order scores over all
// scorable test orders. If no order is scorable the mean is undefined and
// an error is returned instead of NaN.
func ScoreOrders(orders [][]string, index map[string]RecommendationRow) (float64, error) {
	var sum float64
	scored := 0

	for _, order := range orders {
		score, ok := ScoreOrder(order, index)
		if !ok {
			continue
		}
		sum += score
		scored++
	}

	if scored == 0 {
		return 0, fmt.Errorf("score orders: no scorable orders in test set: %w", ErrInvalidInput)
	}
	return sum / float64(scored), nil
}

// Evaluate runs the full evaluation pipeline: split the log, mine rules on
// the train portion, reduce them to a recommendation table, and score the
// test orders against it.
func Evaluate(log Log, catalog map[int64]string, minSupport, trainFraction float64, topN int) (float64, error) {
	train, test, err := SplitTrainTest(log, trainFraction)
	if err != nil {
		return 0, err
	}
	if len(test) == 0 {
		return 0, fmt.Errorf("evaluate: empty test split: %w", ErrInvalidInput)
	}

	rules, err := AssociationRules(train, minSupport)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}
	joined, err := JoinNames(rules, catalog)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}
	rows, err := BuildRecommendations(joined, topN)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}

	orders, err := namedOrders(test, catalog)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}

	return ScoreOrders(orders, RecommendationIndex(rows))
}

// namedOrders groups test entries by order and maps item identifiers to
// display names, preserving add-to-cart position. The catalog join is
// strict, matching the rule-building join.
func namedOrders(log Log, catalog map[int64]string) ([][]string, error) {
	groups := groupByOrder(log)
	orders := make([][]string, 0, len(groups))

	for _, g := range groups {
		names := make([]string, 0, len(g.items))
		for _, item := range g.items {
			name, ok := catalog[item]
			if !ok {
				return nil, fmt.Errorf("test orders: item %d missing from catalog: %w", item, ErrInvalidInput)
			}
			names = append(names, name)
		}
		orders = append(orders, names)
	}
	return orders, nil
}

// FormatScore renders the evaluation score in the fixed text template used
// for the persisted score artifact.
func FormatScore(score float64) string {
	return "Test score is: " + strconv.FormatFloat(score, 'g', -1, 64)
}
