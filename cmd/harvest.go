package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/compeers-ai/market-harvest/internal/fetcher"
	"github.com/compeers-ai/market-harvest/internal/harvest"
	"github.com/compeers-ai/market-harvest/internal/pdf"
	"github.com/compeers-ai/market-harvest/internal/store"
	"github.com/compeers-ai/market-harvest/pkg/edgar"
)

var (
	harvestUploads string
	harvestCompany string
	harvestOut     string
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Run the extraction pipeline over uploads and/or a company's filings",
	RunE:  runHarvest,
}

func init() {
	harvestCmd.Flags().StringVar(&harvestUploads, "uploads", "", "directory of uploaded documents (default from config)")
	harvestCmd.Flags().StringVar(&harvestCompany, "company", "", "company name for EDGAR filing harvest")
	harvestCmd.Flags().StringVar(&harvestOut, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	uploadDir := harvestUploads
	if uploadDir == "" {
		uploadDir = cfg.Harvest.UploadDir
	}
	outDir := harvestOut
	if outDir == "" {
		outDir = cfg.Harvest.OutDir
	}

	f := fetcher.NewHTTPFetcher(fetcher.Options{
		UserAgent: cfg.EDGAR.UserAgent,
		Timeout:   time.Duration(cfg.EDGAR.TimeoutSecs) * time.Second,
	})
	locator := edgar.NewClient(f,
		edgar.WithBaseURL(cfg.EDGAR.BaseURL),
		edgar.WithFilingType(cfg.EDGAR.FilingType),
		edgar.WithCount(cfg.EDGAR.Count),
	)

	h := harvest.New(locator, pdf.NewPdfToText(cfg.PDF.PdfToTextPath), zap.L())

	started := time.Now().UTC()
	res, runErr := h.Run(cmd.Context(), uploadDir, harvestCompany, outDir)

	recordRun(cmd, uploadDir, outDir, started, res, runErr)

	if runErr != nil {
		return fmt.Errorf("harvest: %w", runErr)
	}

	fmt.Printf("harvest complete: %d metrics, %d citations written to %s\n",
		len(res.Metrics), len(res.Citations), outDir)
	return nil
}

// recordRun appends the run outcome to the sqlite run log when one is
// configured. Log failures are reported but never mask the harvest result.
func recordRun(cmd *cobra.Command, uploadDir, outDir string, started time.Time, res *harvest.Result, runErr error) {
	if cfg.Store.Path == "" {
		return
	}

	runLog, err := store.Open(cfg.Store.Path)
	if err != nil {
		zap.L().Warn("run log unavailable", zap.Error(err))
		return
	}
	defer runLog.Close() //nolint:errcheck

	rec := store.RunRecord{
		UploadDir:   uploadDir,
		Company:     harvestCompany,
		OutDir:      outDir,
		StartedAt:   started,
		CompletedAt: time.Now().UTC(),
	}
	if res != nil {
		rec.Metrics = len(res.Metrics)
		rec.Citations = len(res.Citations)
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}

	if err := runLog.Record(cmd.Context(), &rec); err != nil {
		zap.L().Warn("run log write failed", zap.Error(err))
	}
}
