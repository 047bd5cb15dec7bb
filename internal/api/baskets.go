// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/database"
	"github.com/tomtom215/basketry/internal/validation"
)

// maxBasketItems caps a single session basket to bound memory.
const maxBasketItems = 500

// errBasketNotFound is returned for unknown or expired session IDs.
var errBasketNotFound = errors.New("basket not found")

// sessionBasket is one shopper's in-progress basket. Items keep
// insertion order; seen deduplicates case-insensitively.
type sessionBasket struct {
	ID        string    `json:"session_id"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`

	seen map[string]struct{}
}

// BasketStore holds session baskets in memory. Baskets are explicit
// per-session state; handlers never infer a session from anything but
// the session ID path parameter.
type BasketStore struct {
	mu      sync.RWMutex
	baskets map[string]*sessionBasket
}

// NewBasketStore creates an empty basket store
func NewBasketStore() *BasketStore {
	return &BasketStore{
		baskets: make(map[string]*sessionBasket),
	}
}

// Create starts a new session basket and returns it
func (s *BasketStore) Create() *sessionBasket {
	b := &sessionBasket{
		ID:        uuid.New().String(),
		Items:     []string{},
		CreatedAt: time.Now(),
		seen:      make(map[string]struct{}),
	}
	s.mu.Lock()
	s.baskets[b.ID] = b
	s.mu.Unlock()
	return b
}

// Get returns a snapshot of the basket for a session ID
func (s *BasketStore) Get(id string) (sessionBasket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.baskets[id]
	if !ok {
		return sessionBasket{}, errBasketNotFound
	}
	snap := *b
	snap.Items = append([]string(nil), b.Items...)
	return snap, nil
}

// AddItem appends an item to a session basket. Duplicate items are
// ignored so a basket behaves like the distinct item set of an order.
func (s *BasketStore) AddItem(id, item string) (sessionBasket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baskets[id]
	if !ok {
		return sessionBasket{}, errBasketNotFound
	}
	key := strings.ToLower(item)
	if _, dup := b.seen[key]; !dup && len(b.Items) < maxBasketItems {
		b.seen[key] = struct{}{}
		b.Items = append(b.Items, item)
	}
	snap := *b
	snap.Items = append([]string(nil), b.Items...)
	return snap, nil
}

// Reset removes a session basket
func (s *BasketStore) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.baskets[id]; !ok {
		return errBasketNotFound
	}
	delete(s.baskets, id)
	return nil
}

// basketView is the basket response body including live suggestions.
type basketView struct {
	SessionID   string    `json:"session_id"`
	Items       []string  `json:"items"`
	Suggestions []string  `json:"suggestions"`
	CreatedAt   time.Time `json:"created_at"`
}

// addItemRequest is the body for adding an item to a basket.
type addItemRequest struct {
	ItemName string `json:"item_name" validate:"required,min=1,max=256"`
}

// CreateBasket starts a new session basket
func (h *Handler) CreateBasket(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	b := h.baskets.Create()
	respondData(w, http.StatusCreated, basketView{
		SessionID:   b.ID,
		Items:       b.Items,
		Suggestions: []string{},
		CreatedAt:   b.CreatedAt,
	}, start)
}

// GetBasket returns a session basket with suggestions drawn from the
// stored recommendation artifact.
func (h *Handler) GetBasket(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "session")

	b, err := h.baskets.Get(id)
	if errors.Is(err, errBasketNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "unknown basket session", nil)
		return
	}

	suggestions := h.suggestFor(r, b.Items)
	respondData(w, http.StatusOK, basketView{
		SessionID:   b.ID,
		Items:       b.Items,
		Suggestions: suggestions,
		CreatedAt:   b.CreatedAt,
	}, start)
}

// AddBasketItem appends an item to a session basket and returns the
// updated basket with fresh suggestions.
func (h *Handler) AddBasketItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "session")

	var req addItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Code(), verr.Message(), nil)
		return
	}

	b, err := h.baskets.AddItem(id, req.ItemName)
	if errors.Is(err, errBasketNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "unknown basket session", nil)
		return
	}

	suggestions := h.suggestFor(r, b.Items)
	respondData(w, http.StatusOK, basketView{
		SessionID:   b.ID,
		Items:       b.Items,
		Suggestions: suggestions,
		CreatedAt:   b.CreatedAt,
	}, start)
}

// ResetBasket removes a session basket
func (h *Handler) ResetBasket(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "session")

	if err := h.baskets.Reset(id); errors.Is(err, errBasketNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "unknown basket session", nil)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "reset"}, start)
}

// suggestFor aggregates stored recommendations for every item in the
// basket, excluding items already present and the unavailable sentinel.
// Results are sorted for a stable response. Lookup misses are fine;
// not every item has recommendations.
func (h *Handler) suggestFor(r *http.Request, items []string) []string {
	inBasket := make(map[string]struct{}, len(items))
	for _, item := range items {
		inBasket[strings.ToLower(item)] = struct{}{}
	}

	seen := make(map[string]struct{})
	var suggestions []string
	for _, item := range items {
		row, err := h.store.GetRecommendation(r.Context(), item)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			continue
		}
		for _, rec := range row.Recommendations {
			if rec == basket.Unavailable {
				break
			}
			key := strings.ToLower(rec)
			if _, ok := inBasket[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			suggestions = append(suggestions, rec)
		}
	}
	sort.Strings(suggestions)
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions
}
