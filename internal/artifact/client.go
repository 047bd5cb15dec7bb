// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package artifact ships recommendation and score artifacts to and from
// a Google Cloud Storage bucket.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/tomtom215/basketry/internal/config"
	"github.com/tomtom215/basketry/internal/logging"
)

// Client wraps a GCS bucket for artifact transfer
type Client struct {
	storageClient *storage.Client
	bucket        string
	prefix        string
}

// NewClient creates an artifact client from storage configuration.
// When a credentials file is configured it must exist; without one the
// client falls back to application default credentials.
func NewClient(ctx context.Context, cfg *config.StorageConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage.bucket is not configured")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("credentials file not found at %s", cfg.CredentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Client{
		storageClient: storageClient,
		bucket:        cfg.Bucket,
		prefix:        cfg.Prefix,
	}, nil
}

// Close releases the underlying storage client
func (c *Client) Close() error {
	if err := c.storageClient.Close(); err != nil {
		return fmt.Errorf("failed to close storage client: %w", err)
	}
	return nil
}

// objectPath joins the configured prefix with an object name
func (c *Client) objectPath(name string) string {
	if c.prefix == "" {
		return name
	}
	return path.Join(c.prefix, name)
}

// Upload copies a local file to the bucket under the configured prefix
func (c *Client) Upload(ctx context.Context, localPath, name string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	object := c.objectPath(name)
	w := c.storageClient.Bucket(c.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "text/csv"
	w.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to copy %s to gs://%s/%s: %w", localPath, c.bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", c.bucket, object, err)
	}

	logging.Info().
		Str("local", localPath).
		Str("bucket", c.bucket).
		Str("object", object).
		Msg("Uploaded artifact")
	return nil
}

// Download copies an object from the bucket to a local file
func (c *Client) Download(ctx context.Context, name, localPath string) error {
	object := c.objectPath(name)
	r, err := c.storageClient.Bucket(c.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to open gs://%s/%s: %w", c.bucket, object, err)
	}
	defer func() { _ = r.Close() }()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to copy gs://%s/%s to %s: %w", c.bucket, object, localPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close local file %s: %w", localPath, err)
	}

	logging.Info().
		Str("bucket", c.bucket).
		Str("object", object).
		Str("local", localPath).
		Msg("Downloaded artifact")
	return nil
}
