// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package cache

import (
	"sync"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("bananas", 42)
	got, ok := c.Get("bananas")
	if !ok {
		t.Fatal("Get() miss for freshly set key")
	}
	if got.(int) != 42 {
		t.Errorf("Get() = %v, want 42", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() hit for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("k", "v")
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get() hit for expired entry")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expired get, want 0", c.Len())
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Get() hit after Clear")
	}
}

func TestCache_HitRate(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")

	c.Get("k")
	c.Get("k")
	c.Get("missing")

	want := 2.0 / 3.0
	if got := c.HitRate(); got != want {
		t.Errorf("HitRate() = %v, want %v", got, want)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("key", j)
				c.Get("key")
			}
		}()
	}
	wg.Wait()

	if _, ok := c.Get("key"); !ok {
		t.Error("Get() miss after concurrent writes")
	}
}

func TestGenerateKey_Stable(t *testing.T) {
	a := GenerateKey("rec", map[string]string{"item": "Bananas"})
	b := GenerateKey("rec", map[string]string{"item": "Bananas"})
	if a != b {
		t.Errorf("GenerateKey not stable: %q != %q", a, b)
	}

	other := GenerateKey("rec", map[string]string{"item": "Granola"})
	if a == other {
		t.Error("GenerateKey collision for different params")
	}
}
