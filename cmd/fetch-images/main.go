// Package main provides the product image download tool.
//
// It reads product rows from a text file, a Google Sheets worksheet, or a
// local workbook, downloads each row's images, normalizes them onto a
// fixed-size white canvas, and stores them under one folder per product.
//
// Usage:
//
//	fetch-images -input-file urls_products.txt -output-root images
//	fetch-images -spreadsheet-id <id> -credentials-file google-service-account.json
//	fetch-images -workbook-file products.xlsx
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/listinglab/listinglab/internal/config"
	"github.com/listinglab/listinglab/internal/fetch"
	"github.com/listinglab/listinglab/internal/id"
	"github.com/listinglab/listinglab/internal/imaging"
	"github.com/listinglab/listinglab/internal/logger"
	"github.com/listinglab/listinglab/internal/pipeline"
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

	ctx := context.Background()

	rows, err := loadRows(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to load product rows", "error", err)
	}

	store, err := imaging.NewStorage(cfg.Images.OutputRoot)
	if err != nil {
		log.Fatal("Failed to prepare output root", "error", err)
	}

	p := pipeline.New(
		fetch.New(cfg.Images.FetchTimeout, cfg.Images.UserAgent, log.Logger),
		imaging.NewNormalizer(cfg.Images.CanvasWidth, cfg.Images.CanvasHeight, cfg.Images.Quality),
		store,
		log.Logger,
	)

	summary := p.Run(ctx, rows)

	// Per-URL failures never make the run exit non-zero; the summary is the
	// operator's signal.
	log.Info("Run complete",
		"rows", summary.Rows,
		"images_saved", summary.Saved,
		"images_failed", summary.Failed,
		"rows_skipped", summary.Skipped,
		"output_root", store.Root(),
	)
}

// loadRows reads product rows from whichever source the config selects:
// a spreadsheet, a local workbook, or the input text file.
func loadRows(ctx context.Context, cfg *config.Config, log *logger.Logger) ([]product.Row, error) {
	switch {
	case cfg.Sheets.SpreadsheetID != "":
		client, err := sheets.New(ctx, cfg.Sheets.CredentialsFile, log.Logger)
		if err != nil {
			return nil, err
		}
		headers, records, err := client.ReadRecords(ctx, cfg.Sheets.SpreadsheetID, cfg.Input.Worksheet)
		if err != nil {
			return nil, err
		}
		return recordsToRows(headers, records), nil

	case cfg.Sheets.WorkbookFile != "":
		headers, records, err := workbook.ReadRecords(cfg.Sheets.WorkbookFile, cfg.Input.Worksheet)
		if err != nil {
			return nil, err
		}
		return recordsToRows(headers, records), nil

	default:
		return product.ReadFile(cfg.Input.File)
	}
}

func recordsToRows(headers []string, records []map[string]string) []product.Row {
	rows := make([]product.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, product.FromRecord(headers, record))
	}
	return rows
}
