// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"fmt"
	"sort"
)

// filterLog applies the two-stage minimum-support filter:
//
//  1. Drop items whose support on the full log falls below minSupport.
//  2. Drop orders left with fewer than two items, since no pair can form
//     from a smaller order.
//
// It returns the surviving entries and the count of surviving orders. The
// surviving set may be empty; that is a legal outcome (an empty rule set),
// not an input error.
func filterLog(log Log, minSupport float64) (Log, int, error) {
	stats, err := computeStats(log)
	if err != nil {
		return nil, 0, err
	}

	itemFiltered := make(Log, 0, len(log))
	for _, e := range log {
		if stats[e.ItemID].Support >= minSupport {
			itemFiltered = append(itemFiltered, e)
		}
	}

	orderSizes := make(map[int64]int, len(itemFiltered))
	for _, e := range itemFiltered {
		orderSizes[e.OrderID]++
	}

	filtered := make(Log, 0, len(itemFiltered))
	orders := make(map[int64]struct{})
	for _, e := range itemFiltered {
		if orderSizes[e.OrderID] >= 2 {
			filtered = append(filtered, e)
			orders[e.OrderID] = struct{}{}
		}
	}

	return filtered, len(orders), nil
}

// AssociationRules mines pairwise association rules from the log.
// minSupport is a percentage threshold (0.01 means 0.01%) applied first to
// single items, then again to pair support measured against the filtered
// transaction count.
//
// The result is ordered by lift descending; ties are broken by ascending
// (itemA, itemB) identifier pair so the ordering is reproducible across
// runs. Rules reference items by identifier only; use JoinNames to attach
// display names.
func AssociationRules(log Log, minSupport float64) ([]Rule, error) {
	if len(log) == 0 {
		return nil, fmt.Errorf("association rules: empty transaction log: %w", ErrInvalidInput)
	}
	if minSupport < 0 {
		return nil, fmt.Errorf("association rules: negative min support %v: %w", minSupport, ErrInvalidInput)
	}

	filtered, orderCount, err := filterLog(log, minSupport)
	if err != nil {
		return nil, fmt.Errorf("association rules: %w", err)
	}
	if len(filtered) == 0 || orderCount == 0 {
		// Every order fell below two items; there is nothing to pair.
		return []Rule{}, nil
	}

	// Single-item stats must be recomputed on the filtered log: filtering
	// changed both the item frequencies and the transaction count that
	// serves as the support denominator.
	stats, err := computeStats(filtered)
	if err != nil {
		return nil, fmt.Errorf("association rules: %w", err)
	}

	pairs, err := Pairs(filtered)
	if err != nil {
		return nil, fmt.Errorf("association rules: %w", err)
	}

	rules := make([]Rule, 0)
	for pair, freqAB := range CountPairs(pairs) {
		supportAB := float64(freqAB) / float64(orderCount) * 100
		if supportAB < minSupport {
			continue
		}

		statsA, okA := stats[pair.A]
		statsB, okB := stats[pair.B]
		if !okA || !okB {
			return nil, fmt.Errorf("association rules: pair (%d,%d) references unknown item stats: %w",
				pair.A, pair.B, ErrInvalidInput)
		}
		// Both items passed the minimum-support filter, so a zero support
		// here signals a logic error upstream rather than bad data. Fail
		// instead of propagating Inf/NaN into confidence and lift.
		if statsA.Support == 0 || statsB.Support == 0 {
			return nil, fmt.Errorf("association rules: zero support denominator for pair (%d,%d): %w",
				pair.A, pair.B, ErrInvalidInput)
		}

		rules = append(rules, Rule{
			ItemA:          pair.A,
			ItemB:          pair.B,
			FreqAB:         freqAB,
			SupportAB:      supportAB,
			FreqA:          statsA.Freq,
			SupportA:       statsA.Support,
			FreqB:          statsB.Freq,
			SupportB:       statsB.Support,
			ConfidenceAtoB: supportAB / statsA.Support,
			ConfidenceBtoA: supportAB / statsB.Support,
			// Supports are percentages; the extra factor keeps lift the
			// dimensionless observed/expected ratio, so independent items
			// land at exactly 1.0.
			Lift: supportAB / (statsA.Support * statsB.Support) * 100,
		})
	}

	sortRules(rules)
	return rules, nil
}

// sortRules orders rules by lift descending, then ascending (itemA, itemB)
// on equal lift. Pair counts come out of a map, so a total order is the
// only way to keep runs reproducible.
func sortRules(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Lift != rules[j].Lift {
			return rules[i].Lift > rules[j].Lift
		}
		if rules[i].ItemA != rules[j].ItemA {
			return rules[i].ItemA < rules[j].ItemA
		}
		return rules[i].ItemB < rules[j].ItemB
	})
}

// JoinNames returns a copy of the rules with display names attached from
// the item catalog. The join is strict: a rule whose item has no catalog
// entry means the dataset is inconsistent, and the whole join fails rather
// than silently dropping the rule.
func JoinNames(rules []Rule, catalog map[int64]string) ([]Rule, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("join names: empty item catalog: %w", ErrInvalidInput)
	}

	joined := make([]Rule, len(rules))
	for i, r := range rules {
		nameA, ok := catalog[r.ItemA]
		if !ok {
			return nil, fmt.Errorf("join names: item %d missing from catalog: %w", r.ItemA, ErrInvalidInput)
		}
		nameB, ok := catalog[r.ItemB]
		if !ok {
			return nil, fmt.Errorf("join names: item %d missing from catalog: %w", r.ItemB, ErrInvalidInput)
		}
		r.NameA = nameA
		r.NameB = nameB
		joined[i] = r
	}
	return joined, nil
}
