// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/config"
	"github.com/tomtom215/basketry/internal/database"
	"github.com/tomtom215/basketry/internal/models"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	log     basket.Log
	catalog map[int64]string
	recs    []basket.RecommendationRow
	scores  []float64
	pingErr error
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) LoadTransactions(ctx context.Context) (basket.Log, error) {
	return f.log, nil
}

func (f *fakeStore) LoadCatalog(ctx context.Context) (map[int64]string, error) {
	return f.catalog, nil
}

func (f *fakeStore) CountOrders(ctx context.Context) (int64, error) {
	seen := make(map[int64]struct{})
	for _, e := range f.log {
		seen[e.OrderID] = struct{}{}
	}
	return int64(len(seen)), nil
}

func (f *fakeStore) ReplaceRecommendations(ctx context.Context, rows []basket.RecommendationRow) error {
	f.recs = rows
	return nil
}

func (f *fakeStore) GetRecommendation(ctx context.Context, itemName string) (basket.RecommendationRow, error) {
	for _, row := range f.recs {
		if strings.EqualFold(row.ItemName, itemName) {
			return row, nil
		}
	}
	return basket.RecommendationRow{}, database.ErrNotFound
}

func (f *fakeStore) ListRecommendations(ctx context.Context) ([]basket.RecommendationRow, error) {
	return f.recs, nil
}

func (f *fakeStore) SaveScore(ctx context.Context, score, minSupport, trainFraction float64) error {
	f.scores = append(f.scores, score)
	return nil
}

func (f *fakeStore) LatestScore(ctx context.Context) (float64, error) {
	if len(f.scores) == 0 {
		return 0, database.ErrNotFound
	}
	return f.scores[len(f.scores)-1], nil
}

func setupTestServer(t *testing.T, store *fakeStore) *httptest.Server {
	t.Helper()

	analyzer, err := basket.NewAnalyzer(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	cfg := &config.Config{
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}

	srv := httptest.NewServer(NewRouter(cfg, store, analyzer).Setup())
	t.Cleanup(srv.Close)
	return srv
}

func decodeResponse(t *testing.T, resp *http.Response) models.APIResponse {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var body models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestHealthLive(t *testing.T) {
	srv := setupTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/api/v1/health/live")
	if err != nil {
		t.Fatalf("GET /health/live error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := decodeResponse(t, resp)
	if body.Status != "success" {
		t.Errorf("body status = %q, want success", body.Status)
	}
}

func TestHealthReady_DatabaseDown(t *testing.T) {
	store := &fakeStore{pingErr: errors.New("connection refused")}
	srv := setupTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/v1/health/ready")
	if err != nil {
		t.Fatalf("GET /health/ready error = %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
	body := decodeResponse(t, resp)
	if body.Error == nil || body.Error.Code != "NOT_READY" {
		t.Errorf("error = %+v, want NOT_READY", body.Error)
	}
}

func TestGetRecommendation(t *testing.T) {
	store := &fakeStore{
		recs: []basket.RecommendationRow{
			{ItemName: "Bananas", Recommendations: [5]string{"Oat Milk", "NA", "NA", "NA", "NA"}},
		},
	}
	srv := setupTestServer(t, store)

	tests := []struct {
		name       string
		item       string
		wantStatus int
	}{
		{"exact match", "Bananas", http.StatusOK},
		{"case-insensitive match", "bananas", http.StatusOK},
		{"unknown item", "Quinoa", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/v1/recommendations/" + tt.item)
			if err != nil {
				t.Fatalf("GET error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decodeResponse(t, resp)
			if tt.wantStatus == http.StatusOK {
				if body.Status != "success" {
					t.Errorf("body status = %q, want success", body.Status)
				}
			} else if body.Error == nil || body.Error.Code != "NOT_FOUND" {
				t.Errorf("error = %+v, want NOT_FOUND", body.Error)
			}
		})
	}
}

func TestRunAnalysis(t *testing.T) {
	// Ten identical two-item orders so the pair survives any sane
	// minimum support threshold.
	var log basket.Log
	for i := int64(1); i <= 10; i++ {
		log = append(log,
			basket.Entry{OrderID: i, ItemID: 1},
			basket.Entry{OrderID: i, ItemID: 2},
		)
	}
	store := &fakeStore{
		log:     log,
		catalog: map[int64]string{1: "Bananas", 2: "Oat Milk"},
	}
	srv := setupTestServer(t, store)

	resp, err := http.Post(srv.URL+"/api/v1/analysis/run", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /analysis/run error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := decodeResponse(t, resp)
	if body.Status != "success" {
		t.Errorf("body status = %q, want success", body.Status)
	}

	// One canonical pair, so only its target side gets a row.
	if len(store.recs) != 1 {
		t.Fatalf("stored %d recommendation rows, want 1", len(store.recs))
	}
	if store.recs[0].ItemName != "Oat Milk" {
		t.Errorf("stored row target = %q, want %q", store.recs[0].ItemName, "Oat Milk")
	}

	// The artifact is immediately queryable.
	resp, err = http.Get(srv.URL + "/api/v1/recommendations/Oat%20Milk")
	if err != nil {
		t.Fatalf("GET recommendation error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("lookup after analysis status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	_ = resp.Body.Close()
}

func TestRunEvaluation_SavesScore(t *testing.T) {
	// Identical orders in train and test so evaluation finds every
	// recommended partner.
	var log basket.Log
	for i := int64(1); i <= 10; i++ {
		log = append(log,
			basket.Entry{OrderID: i, ItemID: 1},
			basket.Entry{OrderID: i, ItemID: 2},
		)
	}
	store := &fakeStore{
		log:     log,
		catalog: map[int64]string{1: "Bananas", 2: "Oat Milk"},
	}
	srv := setupTestServer(t, store)

	resp, err := http.Post(srv.URL+"/api/v1/evaluation/run", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /evaluation/run error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if len(store.scores) != 1 {
		t.Fatalf("saved %d scores, want 1", len(store.scores))
	}

	resp, err = http.Get(srv.URL + "/api/v1/evaluation/score")
	if err != nil {
		t.Fatalf("GET /evaluation/score error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("score lookup status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	_ = resp.Body.Close()
}

func TestLatestScore_NoneRecorded(t *testing.T) {
	srv := setupTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/api/v1/evaluation/score")
	if err != nil {
		t.Fatalf("GET /evaluation/score error = %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	_ = resp.Body.Close()
}

func TestRequestIDHeader(t *testing.T) {
	srv := setupTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/api/v1/health/live")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}
}
