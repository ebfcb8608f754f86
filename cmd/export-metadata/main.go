// Package main provides the product metadata export tool.
//
// It reads product rows from a Google Sheets worksheet or a local workbook,
// derives marketing metadata (SEO title, descriptions, keywords, target
// gender), and fully replaces the destination worksheet with the result.
//
// Usage:
//
//	export-metadata -spreadsheet-id <id> -credentials-file google-service-account.json
//	export-metadata -workbook-file products.xlsx -output-worksheet "Product Metadata"
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/listinglab/listinglab/internal/config"
	"github.com/listinglab/listinglab/internal/id"
	"github.com/listinglab/listinglab/internal/logger"
	"github.com/listinglab/listinglab/internal/meta"
	"github.com/listinglab/listinglab/internal/product"
	"github.com/listinglab/listinglab/internal/sheets"
	"github.com/listinglab/listinglab/internal/workbook"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})
	log = &logger.Logger{Logger: log.With("run_id", id.NewRunID())}

	if cfg.Sheets.SpreadsheetID == "" && cfg.Sheets.WorkbookFile == "" {
		log.Fatal("Metadata export needs -spreadsheet-id or -workbook-file")
	}

	ctx := context.Background()

	var client *sheets.Client
	if cfg.Sheets.SpreadsheetID != "" {
		client, err = sheets.New(ctx, cfg.Sheets.CredentialsFile, log.Logger)
		if err != nil {
			log.Fatal("Failed to open spreadsheet", "error", err)
		}
	}

	headers, records, err := readRecords(ctx, cfg, client)
	if err != nil {
		log.Fatal("Failed to read product rows", "error", err)
	}

	deriver := meta.NewDeriver()

	derived := make([]meta.Record, 0, len(records))
	skipped := 0
	for _, record := range records {
		row := product.FromRecord(headers, record)
		rec, ok := deriver.Derive(row)
		if !ok {
			skipped++
			log.Warn("Skipping row without title")
			continue
		}
		derived = append(derived, rec)
	}

	if len(derived) == 0 {
		log.Fatal("No data rows derived from the source worksheet")
	}

	grid := meta.BuildGrid(derived)
	if err := pushGrid(ctx, cfg, client, grid); err != nil {
		log.Fatal("Failed to push metadata", "error", err)
	}

	log.Info("Export complete",
		"records", len(derived),
		"rows_skipped", skipped,
		"worksheet", cfg.Sheets.OutputWorksheet,
	)
}

func readRecords(ctx context.Context, cfg *config.Config, client *sheets.Client) ([]string, []map[string]string, error) {
	if client != nil {
		return client.ReadRecords(ctx, cfg.Sheets.SpreadsheetID, cfg.Input.Worksheet)
	}
	return workbook.ReadRecords(cfg.Sheets.WorkbookFile, cfg.Input.Worksheet)
}

func pushGrid(ctx context.Context, cfg *config.Config, client *sheets.Client, grid [][]string) error {
	if client != nil {
		return client.Push(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.OutputWorksheet, grid)
	}
	return workbook.Push(cfg.Sheets.WorkbookFile, cfg.Sheets.OutputWorksheet, grid)
}
