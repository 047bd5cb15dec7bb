// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/basketry/internal/config"
)

func TestNewClient_NoBucket(t *testing.T) {
	_, err := NewClient(context.Background(), &config.StorageConfig{})
	if err == nil {
		t.Fatal("NewClient without a bucket should return an error")
	}
	if !strings.Contains(err.Error(), "storage.bucket") {
		t.Errorf("error should name the missing setting, got: %v", err)
	}
}

func TestNewClient_MissingCredentialsFile(t *testing.T) {
	cfg := &config.StorageConfig{
		Bucket:          "test-bucket",
		CredentialsFile: "/nonexistent/key.json",
	}
	_, err := NewClient(context.Background(), cfg)
	if err == nil {
		t.Fatal("NewClient with a missing credentials file should return an error")
	}
	if !strings.Contains(err.Error(), "/nonexistent/key.json") {
		t.Errorf("error should contain the path, got: %v", err)
	}
}

func TestNewClient_InvalidCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid_key.json")
	if err := os.WriteFile(path, []byte("not valid json"), 0o600); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	cfg := &config.StorageConfig{
		Bucket:          "test-bucket",
		CredentialsFile: path,
	}
	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("NewClient with an invalid credentials file should return an error")
	}
}

func TestObjectPath(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", "recs.csv", "recs.csv"},
		{"artifacts", "recs.csv", "artifacts/recs.csv"},
		{"artifacts/v2", "recs.csv", "artifacts/v2/recs.csv"},
	}
	for _, tt := range tests {
		c := &Client{prefix: tt.prefix}
		if got := c.objectPath(tt.name); got != tt.want {
			t.Errorf("objectPath(%q) with prefix %q = %q, want %q", tt.name, tt.prefix, got, tt.want)
		}
	}
}
