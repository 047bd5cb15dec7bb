// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tomtom215/basketry/internal/logging"
)

var (
	ingestOrdersPath   string
	ingestProductsPath string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load order and product CSV files into the database",
	Long: `Ingest bulk-loads transaction and catalog CSVs into DuckDB.

The orders file needs order_id and item_id columns; rows are stored in
file order, which fixes the train/test split for later scoring. The
products file needs item_id and item_name columns; re-ingesting a
product replaces its name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ingestOrdersPath == "" && ingestProductsPath == "" {
			return errors.New("nothing to ingest: pass --orders and/or --products")
		}

		ctx, cancel := commandContext()
		defer cancel()

		db, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		if ingestProductsPath != "" {
			n, err := db.IngestProductsCSV(ctx, ingestProductsPath)
			if err != nil {
				return err
			}
			logging.Info().Int64("rows", n).Str("file", ingestProductsPath).Msg("Products ingested")
		}
		if ingestOrdersPath != "" {
			n, err := db.IngestOrdersCSV(ctx, ingestOrdersPath)
			if err != nil {
				return err
			}
			logging.Info().Int64("rows", n).Str("file", ingestOrdersPath).Msg("Orders ingested")
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOrdersPath, "orders", "", "path to the orders CSV")
	ingestCmd.Flags().StringVar(&ingestProductsPath, "products", "", "path to the products CSV")
	rootCmd.AddCommand(ingestCmd)
}
