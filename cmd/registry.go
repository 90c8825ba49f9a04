package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/compeers-ai/market-harvest/internal/registry"
)

var (
	registryParser      string
	registryReliability string
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the append-only curated-source ledger",
}

var registryAppendCmd = &cobra.Command{
	Use:   "append FILE",
	Short: "Append approved sources from a CSV of curated rows",
	Long:  "Reads curated rows (url, title, publisher, source_type, access_type, coverage_period, relevance_note) from FILE and appends them to the ledger with a shared access date and per-row checksum.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryAppend,
}

func init() {
	registryAppendCmd.Flags().StringVar(&registryParser, "parser", "google_cse_v1", "parser tag recorded on each row")
	registryAppendCmd.Flags().StringVar(&registryReliability, "reliability", "unknown", "reliability flag recorded on each row")
	registryCmd.AddCommand(registryAppendCmd)
	rootCmd.AddCommand(registryCmd)
}

func runRegistryAppend(cmd *cobra.Command, args []string) error {
	rows, err := readCuratedRows(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("registry append: no curated rows in %s", args[0])
	}

	ledger := registry.NewLedger(cfg.Registry.Path)
	if err := ledger.Append(rows, registryParser, registryReliability); err != nil {
		return fmt.Errorf("registry append: %w", err)
	}

	fmt.Printf("appended %d rows to %s\n", len(rows), ledger.Path())
	return nil
}

// readCuratedRows loads curated rows from a headered CSV, mapping columns
// by header name so the approval tool's column order does not matter.
func readCuratedRows(path string) ([]registry.CuratedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry append: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("registry append: read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	idx := map[string]int{}
	for i, h := range records[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []registry.CuratedRow
	for _, rec := range records[1:] {
		rows = append(rows, registry.CuratedRow{
			URL:            field(rec, "url"),
			Title:          field(rec, "title"),
			Publisher:      field(rec, "publisher"),
			SourceType:     field(rec, "source_type"),
			AccessType:     field(rec, "access_type"),
			CoveragePeriod: field(rec, "coverage_period"),
			RelevanceNote:  field(rec, "relevance_note"),
		})
	}
	return rows, nil
}
