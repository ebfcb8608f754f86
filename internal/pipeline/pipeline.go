// Package pipeline orchestrates the per-product fetch, normalize, and store
// flow.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/listinglab/listinglab/internal/fetch"
	"github.com/listinglab/listinglab/internal/imaging"
	"github.com/listinglab/listinglab/internal/product"
	"github.com/listinglab/listinglab/internal/util"
)

// Pipeline downloads each row's images, normalizes them, and stores them in
// a unique per-product folder. Rows and URLs are processed strictly
// sequentially, in source order.
type Pipeline struct {
	fetcher    *fetch.Client
	normalizer *imaging.Normalizer
	store      *imaging.Storage
	logger     *slog.Logger
}

// New creates a Pipeline.
func New(fetcher *fetch.Client, normalizer *imaging.Normalizer, store *imaging.Storage, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		normalizer: normalizer,
		store:      store,
		logger:     logger,
	}
}

// ImageResult is the outcome for a single URL within a row. Err is nil on
// success; a failed URL leaves a gap at its index but never aborts the row.
type ImageResult struct {
	Index    int
	URL      string
	Path     string
	BlurHash string
	Err      error
}

// OK reports whether the image was fetched, normalized, and stored.
func (r ImageResult) OK() bool {
	return r.Err == nil
}

// RowReport aggregates per-URL outcomes for one product row.
type RowReport struct {
	Title      string
	Dir        string
	Skipped    bool
	SkipReason string
	Images     []ImageResult
}

// Summary totals a whole run.
type Summary struct {
	Rows    int
	Saved   int
	Failed  int
	Skipped int
}

// ProcessRow materializes one row's images: a unique output folder named
// after the title slug, containing 1.webp, 2.webp, … in URL order. Rows
// without any usable URL are skipped and no folder is created.
func (p *Pipeline) ProcessRow(ctx context.Context, row product.Row) RowReport {
	report := RowReport{Title: row.Title}

	if len(row.ImageURLs) == 0 {
		report.Skipped = true
		report.SkipReason = "no image URLs"
		p.logger.Warn("skipping row", "title", row.Title, "reason", report.SkipReason)
		return report
	}

	slug := util.TitleSlug(row.Title)
	report.Dir = p.store.UniqueDir(slug)

	p.logger.Info("processing product",
		"title", row.Title,
		"folder", filepath.Base(report.Dir),
		"images", len(row.ImageURLs),
	)

	for i, url := range row.ImageURLs {
		result := ImageResult{Index: i + 1, URL: url}

		data, err := p.fetcher.Get(ctx, url)
		if err == nil {
			var norm *imaging.Normalized
			norm, err = p.normalizer.Normalize(data)
			if err == nil {
				result.Path, err = p.store.SaveImage(report.Dir, result.Index, norm.WebP)
				if err == nil {
					if hash, hashErr := imaging.ComputeBlurHash(norm.Canvas); hashErr == nil {
						result.BlurHash = hash
					} else {
						p.logger.Debug("blurhash failed", "url", url, "error", hashErr)
					}
				}
			}
		}
		result.Err = err

		if result.OK() {
			p.logger.Info("saved image", "path", result.Path, "blurhash", result.BlurHash)
		} else {
			p.logger.Error("image failed", "url", url, "error", result.Err)
		}

		report.Images = append(report.Images, result)
	}

	return report
}

// Run processes all rows sequentially and returns the totals. Per-URL and
// per-row failures never abort the batch.
func (p *Pipeline) Run(ctx context.Context, rows []product.Row) Summary {
	var summary Summary
	summary.Rows = len(rows)

	for _, row := range rows {
		report := p.ProcessRow(ctx, row)
		if report.Skipped {
			summary.Skipped++
			continue
		}
		for _, img := range report.Images {
			if img.OK() {
				summary.Saved++
			} else {
				summary.Failed++
			}
		}
	}

	return summary
}
