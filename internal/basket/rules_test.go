// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestAssociationRules_SingleTransaction(t *testing.T) {
	// One transaction with three items: every pair co-occurs in 100% of
	// transactions and every item has 100% support, so all three rules
	// come out at lift 1.0 and confidence 1.0 both ways.
	log := Log{
		{OrderID: 1, ItemID: 1},
		{OrderID: 1, ItemID: 2},
		{OrderID: 1, ItemID: 3},
	}

	rules, err := AssociationRules(log, 0)
	if err != nil {
		t.Fatalf("AssociationRules() error = %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(rules))
	}

	wantPairs := map[Pair]bool{
		{A: 1, B: 2}: true,
		{A: 1, B: 3}: true,
		{A: 2, B: 3}: true,
	}
	for _, r := range rules {
		if !wantPairs[Pair{A: r.ItemA, B: r.ItemB}] {
			t.Errorf("unexpected rule pair (%d,%d)", r.ItemA, r.ItemB)
		}
		if r.FreqAB != 1 {
			t.Errorf("rule (%d,%d): freq_ab = %d, want 1", r.ItemA, r.ItemB, r.FreqAB)
		}
		if !almostEqual(r.SupportAB, 100) {
			t.Errorf("rule (%d,%d): support_ab = %v, want 100", r.ItemA, r.ItemB, r.SupportAB)
		}
		if !almostEqual(r.SupportA, 100) || !almostEqual(r.SupportB, 100) {
			t.Errorf("rule (%d,%d): item supports = %v/%v, want 100/100", r.ItemA, r.ItemB, r.SupportA, r.SupportB)
		}
		if !almostEqual(r.Lift, 1.0) {
			t.Errorf("rule (%d,%d): lift = %v, want 1.0", r.ItemA, r.ItemB, r.Lift)
		}
		if !almostEqual(r.ConfidenceAtoB, 1.0) || !almostEqual(r.ConfidenceBtoA, 1.0) {
			t.Errorf("rule (%d,%d): confidence = %v/%v, want 1.0/1.0",
				r.ItemA, r.ItemB, r.ConfidenceAtoB, r.ConfidenceBtoA)
		}
	}
}

func TestAssociationRules_IdenticalTwoItemTransactions(t *testing.T) {
	// N identical two-item transactions: perfect co-occurrence, so both
	// confidences and the lift are exactly 1.0.
	var log Log
	for i := int64(1); i <= 7; i++ {
		log = append(log,
			Entry{OrderID: i, ItemID: 100},
			Entry{OrderID: i, ItemID: 200},
		)
	}

	rules, err := AssociationRules(log, 0)
	if err != nil {
		t.Fatalf("AssociationRules() error = %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}

	r := rules[0]
	if r.FreqAB != 7 {
		t.Errorf("freq_ab = %d, want 7", r.FreqAB)
	}
	if !almostEqual(r.Lift, 1.0) {
		t.Errorf("lift = %v, want 1.0", r.Lift)
	}
	if !almostEqual(r.ConfidenceAtoB, 1.0) || !almostEqual(r.ConfidenceBtoA, 1.0) {
		t.Errorf("confidence = %v/%v, want 1.0/1.0", r.ConfidenceAtoB, r.ConfidenceBtoA)
	}
}

func TestAssociationRules_SingleItemOrdersDropped(t *testing.T) {
	// Five distinct single-item transactions: the order-size filter drops
	// them all and the rule set is empty, which is not an error.
	log := Log{
		{OrderID: 1, ItemID: 10},
		{OrderID: 2, ItemID: 20},
		{OrderID: 3, ItemID: 30},
		{OrderID: 4, ItemID: 40},
		{OrderID: 5, ItemID: 50},
	}

	rules, err := AssociationRules(log, 0)
	if err != nil {
		t.Fatalf("AssociationRules() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("got %d rules, want 0", len(rules))
	}
}

func TestAssociationRules_FilteringIsMonotonic(t *testing.T) {
	log := Log{
		{OrderID: 1, ItemID: 1}, {OrderID: 1, ItemID: 2}, {OrderID: 1, ItemID: 3},
		{OrderID: 2, ItemID: 1}, {OrderID: 2, ItemID: 2},
		{OrderID: 3, ItemID: 1}, {OrderID: 3, ItemID: 4},
		{OrderID: 4, ItemID: 2}, {OrderID: 4, ItemID: 3},
		{OrderID: 5, ItemID: 1}, {OrderID: 5, ItemID: 5},
	}

	prev := math.MaxInt
	for _, minSupport := range []float64{0, 10, 25, 40, 60, 90} {
		rules, err := AssociationRules(log, minSupport)
		if err != nil {
			t.Fatalf("AssociationRules(minSupport=%v) error = %v", minSupport, err)
		}
		if len(rules) > prev {
			t.Errorf("minSupport=%v: %d rules, more than %d at the lower threshold", minSupport, len(rules), prev)
		}
		prev = len(rules)
	}
}

func TestAssociationRules_ItemFilterChangesDenominator(t *testing.T) {
	// Item 99 appears once in 10 orders (support 10%). With minSupport 20
	// the item is dropped, its order shrinks below two items and is
	// dropped too, so the surviving supports are measured against 9
	// orders, not 10.
	var log Log
	for i := int64(1); i <= 9; i++ {
		log = append(log,
			Entry{OrderID: i, ItemID: 1},
			Entry{OrderID: i, ItemID: 2},
		)
	}
	log = append(log, Entry{OrderID: 10, ItemID: 99}, Entry{OrderID: 10, ItemID: 1})

	rules, err := AssociationRules(log, 20)
	if err != nil {
		t.Fatalf("AssociationRules() error = %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	r := rules[0]
	if !almostEqual(r.SupportAB, 100) {
		t.Errorf("support_ab = %v, want 100 (9 of 9 filtered orders)", r.SupportAB)
	}
	if r.FreqA != 9 || r.FreqB != 9 {
		t.Errorf("filtered item freqs = %d/%d, want 9/9", r.FreqA, r.FreqB)
	}
}

func TestAssociationRules_DeterministicOrdering(t *testing.T) {
	log := Log{
		{OrderID: 1, ItemID: 3}, {OrderID: 1, ItemID: 1}, {OrderID: 1, ItemID: 2},
		{OrderID: 2, ItemID: 2}, {OrderID: 2, ItemID: 3},
		{OrderID: 3, ItemID: 1}, {OrderID: 3, ItemID: 3},
	}

	first, err := AssociationRules(log, 0)
	if err != nil {
		t.Fatalf("AssociationRules() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := AssociationRules(log, 0)
		if err != nil {
			t.Fatalf("AssociationRules() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different ordering:\nfirst: %v\nagain: %v", i, first, again)
		}
	}

	// Lift is non-increasing, ties ordered by ascending id pair.
	for i := 1; i < len(first); i++ {
		prev, curr := first[i-1], first[i]
		if curr.Lift > prev.Lift {
			t.Errorf("rules[%d].lift = %v > rules[%d].lift = %v", i, curr.Lift, i-1, prev.Lift)
		}
		if curr.Lift == prev.Lift {
			if prev.ItemA > curr.ItemA || (prev.ItemA == curr.ItemA && prev.ItemB >= curr.ItemB) {
				t.Errorf("tie at lift %v not ordered by id pair: (%d,%d) before (%d,%d)",
					curr.Lift, prev.ItemA, prev.ItemB, curr.ItemA, curr.ItemB)
			}
		}
	}
}

func TestAssociationRules_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		log        Log
		minSupport float64
	}{
		{name: "empty log", log: Log{}, minSupport: 0},
		{
			name:       "negative min support",
			log:        Log{{OrderID: 1, ItemID: 1}, {OrderID: 1, ItemID: 2}},
			minSupport: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AssociationRules(tt.log, tt.minSupport); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("AssociationRules() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestJoinNames(t *testing.T) {
	rules := []Rule{
		{ItemA: 1, ItemB: 2, Lift: 2.0},
		{ItemA: 1, ItemB: 3, Lift: 1.0},
	}
	catalog := map[int64]string{1: "Bananas", 2: "Oat Milk", 3: "Granola"}

	joined, err := JoinNames(rules, catalog)
	if err != nil {
		t.Fatalf("JoinNames() error = %v", err)
	}
	if joined[0].NameA != "Bananas" || joined[0].NameB != "Oat Milk" {
		t.Errorf("joined[0] names = %q/%q, want Bananas/Oat Milk", joined[0].NameA, joined[0].NameB)
	}
	// Input rules stay untouched.
	if rules[0].NameA != "" {
		t.Errorf("input rule mutated: NameA = %q", rules[0].NameA)
	}
}

func TestJoinNames_MissingCatalogEntryFailsLoudly(t *testing.T) {
	rules := []Rule{{ItemA: 1, ItemB: 99}}
	catalog := map[int64]string{1: "Bananas"}

	if _, err := JoinNames(rules, catalog); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("JoinNames() error = %v, want ErrInvalidInput", err)
	}
}

func TestJoinNames_EmptyCatalog(t *testing.T) {
	if _, err := JoinNames([]Rule{{ItemA: 1, ItemB: 2}}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("JoinNames() error = %v, want ErrInvalidInput", err)
	}
}
