// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
)

var analyzeOutputPath string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Mine recommendations from the ingested transaction log",
	Long: `Analyze runs the full mining pipeline over the ingested orders:
support filtering, pair counting, association rules ordered by lift, and
the per-item top-5 reduction. The result atomically replaces the stored
recommendation artifact, and can additionally be exported as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		analyzer, err := basket.NewAnalyzer(&cfg.Analysis, logging.Logger())
		if err != nil {
			return err
		}

		start := time.Now()
		log, err := db.LoadTransactions(ctx)
		if err != nil {
			return err
		}
		catalog, err := db.LoadCatalog(ctx)
		if err != nil {
			return err
		}

		rules, err := analyzer.Rules(ctx, log, catalog)
		if err != nil {
			metrics.ObserveAnalysis(start, 0, 0, err)
			return err
		}
		rows, err := analyzer.Reduce(rules)
		if err != nil {
			metrics.ObserveAnalysis(start, len(rules), 0, err)
			return err
		}
		if err := db.ReplaceRecommendations(ctx, rows); err != nil {
			metrics.ObserveAnalysis(start, len(rules), len(rows), err)
			return err
		}
		metrics.ObserveAnalysis(start, len(rules), len(rows), nil)

		logging.Info().
			Int("rules", len(rules)).
			Int("items_covered", len(rows)).
			Dur("duration", time.Since(start)).
			Msg("Analysis complete")

		if analyzeOutputPath != "" {
			if err := db.ExportRecommendationsCSV(ctx, analyzeOutputPath); err != nil {
				return err
			}
			logging.Info().Str("file", analyzeOutputPath).Msg("Recommendations exported")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutputPath, "output", "", "also export the artifact to this CSV path")
	rootCmd.AddCommand(analyzeCmd)
}
