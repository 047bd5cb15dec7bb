// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
)

var scoreOutputPath string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Evaluate recommendation quality on a held-out split",
	Long: `Score splits the ingested transaction log positionally into train and
test portions, mines recommendations on the train side only, and scores
each test order by how many recommended partners actually appear later
in it. The mean per-order score is recorded in the database, printed,
and optionally written to a text file.`,
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

		log, err := db.LoadTransactions(ctx)
		if err != nil {
			return err
		}
		catalog, err := db.LoadCatalog(ctx)
		if err != nil {
			return err
		}

		score, err := analyzer.Evaluate(ctx, log, catalog)
		metrics.ObserveEvaluation(score, err)
		if err != nil {
			return err
		}

		if err := db.SaveScore(ctx, score, cfg.Analysis.MinSupport, cfg.Analysis.TrainFraction); err != nil {
			return err
		}

		rendered := basket.FormatScore(score)
		fmt.Println(rendered)

		if scoreOutputPath != "" {
			if err := os.WriteFile(scoreOutputPath, []byte(rendered+"\n"), 0o600); err != nil {
				return fmt.Errorf("failed to write score file %s: %w", scoreOutputPath, err)
			}
			logging.Info().Str("file", scoreOutputPath).Msg("Score written")
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreOutputPath, "output", "", "also write the rendered score to this file")
	rootCmd.AddCommand(scoreCmd)
}
