// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/basketry/internal/logging"
)

var exportOutputPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored recommendation artifact as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := db.ExportRecommendationsCSV(ctx, exportOutputPath); err != nil {
			return err
		}
		logging.Info().Str("file", exportOutputPath).Msg("Recommendations exported")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutputPath, "output", "recommendations.csv", "destination CSV path")
	rootCmd.AddCommand(exportCmd)
}
