// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tomtom215/basketry/internal/artifact"
	"github.com/tomtom215/basketry/internal/logging"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-file> [object-name]",
	Short: "Upload an artifact file to the configured storage bucket",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, err := artifact.NewClient(ctx, &cfg.Storage)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing storage client")
			}
		}()

		localPath := args[0]
		name := filepath.Base(localPath)
		if len(args) == 2 {
			name = args[1]
		}
		return client.Upload(ctx, localPath, name)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <object-name> [local-file]",
	Short: "Download an artifact file from the configured storage bucket",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, err := artifact.NewClient(ctx, &cfg.Storage)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing storage client")
			}
		}()

		name := args[0]
		localPath := filepath.Base(name)
		if len(args) == 2 {
			localPath = args[1]
		}
		return client.Download(ctx, name, localPath)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
}
