// Package harvest orchestrates one end-to-end extraction run: uploaded
// documents and/or a company's EDGAR filings in, paired metric and
// citation tables out.
package harvest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/compeers-ai/market-harvest/internal/doctext"
	"github.com/compeers-ai/market-harvest/internal/extract"
	"github.com/compeers-ai/market-harvest/internal/model"
	"github.com/compeers-ai/market-harvest/internal/pdf"
	"github.com/compeers-ai/market-harvest/pkg/edgar"
)

// Excerpt bounds for citation snippets, in runes.
const (
	uploadExcerptLen = 500
	filingExcerptLen = 800
)

// Result holds the two paired output collections of a harvest, in
// emission order: upload-derived entries before filing-derived ones.
type Result struct {
	Metrics   []model.MetricRecord
	Citations []model.CitationRecord
}

// FilingLocator finds and retrieves remote filings for a company.
type FilingLocator interface {
	Search(ctx context.Context, company string) ([]edgar.Filing, error)
	FetchFiling(ctx context.Context, link string) (string, error)
}

// Harvester drives the extraction pipeline. It holds no state between
// runs; every Run starts from its arguments alone.
type Harvester struct {
	locator FilingLocator
	pdf     pdf.Extractor
	log     *zap.Logger
}

// New creates a Harvester. The locator may be nil when only upload-mode
// harvests are run; the PDF extractor may be nil to skip PDF inputs.
func New(locator FilingLocator, pdfExtractor pdf.Extractor, log *zap.Logger) *Harvester {
	if log == nil {
		log = zap.L()
	}
	return &Harvester{locator: locator, pdf: pdfExtractor, log: log}
}

// Run harvests uploadDir (when non-empty) and company filings (when
// company is non-empty), persists both result tables under outDir, and
// returns them. Persistence failures and an unreachable filings index
// propagate; individual unreadable files or failed filing fetches are
// skipped with a log line.
func (h *Harvester) Run(ctx context.Context, uploadDir, company, outDir string) (*Result, error) {
	res := &Result{}

	if uploadDir != "" {
		if err := h.harvestUploads(ctx, uploadDir, res); err != nil {
			return nil, err
		}
	}

	if company != "" {
		if err := h.harvestFilings(ctx, company, res); err != nil {
			return nil, err
		}
	}

	if err := h.persist(res, outDir); err != nil {
		return nil, err
	}

	h.log.Info("harvest complete",
		zap.String("upload_dir", uploadDir),
		zap.String("company", company),
		zap.Int("metrics", len(res.Metrics)),
		zap.Int("citations", len(res.Citations)),
	)
	return res, nil
}

// harvestUploads processes each regular file directly under uploadDir,
// non-recursively, in lexical order. Files yielding no numeric signal are
// silently excluded.
func (h *Harvester) harvestUploads(ctx context.Context, uploadDir string, res *Result) error {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return eris.Wrapf(err, "harvest: read upload dir %s", uploadDir)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(uploadDir, entry.Name())

		text := doctext.Flatten(ctx, path, h.pdf)
		if text == "" {
			h.log.Debug("no text extracted, skipping", zap.String("path", path))
			continue
		}

		nums := extract.MarketNumbers(text)
		if nums.Empty() {
			h.log.Debug("no numeric signal, skipping", zap.String("path", path))
			continue
		}

		res.Metrics = append(res.Metrics, metricFrom(entry.Name(), nums))
		res.Citations = append(res.Citations, model.NewCitation(
			entry.Name(), model.SourceUpload, path, model.Truncate(text, uploadExcerptLen)))
	}
	return nil
}

// harvestFilings locates the company's filings and extracts each one. A
// fetch failure for one filing does not abort the rest; an unreachable
// index does, since company mode has no fallback source.
func (h *Harvester) harvestFilings(ctx context.Context, company string, res *Result) error {
	if h.locator == nil {
		return eris.New("harvest: no filing locator configured")
	}

	filings, err := h.locator.Search(ctx, company)
	if err != nil {
		return eris.Wrapf(err, "harvest: locate filings for %q", company)
	}

	for _, f := range filings {
		text, err := h.locator.FetchFiling(ctx, f.Link)
		if err != nil {
			h.log.Warn("filing fetch failed, skipping",
				zap.String("title", f.Title),
				zap.String("link", f.Link),
				zap.Error(err),
			)
			continue
		}

		nums := extract.MarketNumbers(text)
		if nums.Empty() {
			h.log.Debug("no numeric signal in filing", zap.String("title", f.Title))
			continue
		}

		res.Metrics = append(res.Metrics, metricFrom(f.Title, nums))
		res.Citations = append(res.Citations, model.NewCitation(
			f.Title, model.SourceEDGAR, f.Link, model.Truncate(text, filingExcerptLen)))
	}
	return nil
}

func metricFrom(sourceID string, nums extract.Numbers) model.MetricRecord {
	return model.MetricRecord{
		SourceID:        sourceID,
		TotalMarketSize: nums.Total,
		Currency:        nums.Currency,
		History:         nums.History,
		CAGR:            nums.CAGR,
	}
}
