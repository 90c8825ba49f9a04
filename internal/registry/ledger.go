// Package registry maintains the append-only ledger of curated/approved
// sources. The ledger file is the system of record: rows are appended,
// never updated or deleted, which is the traceability guarantee.
package registry

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/compeers-ai/market-harvest/internal/model"
)

// parserVersion tags ledger rows with the curation parser revision.
const parserVersion = "1.0"

// header is the fixed column order of the ledger file.
var header = []string{
	"url", "title", "publisher", "source_type", "access_type", "coverage_period",
	"relevance_note", "access_date", "parser", "parser_version", "reliability_flag",
	"checksum", "rows_parsed",
}

// CuratedRow carries the externally curated fields of one approved source.
type CuratedRow struct {
	URL            string
	Title          string
	Publisher      string
	SourceType     string
	AccessType     string
	CoveragePeriod string
	RelevanceNote  string
}

// Ledger appends curated sources to a persistent delimited file.
type Ledger struct {
	path string
}

// NewLedger creates a ledger backed by the file at path. The file is
// created on first append.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Append writes one ledger row per curated row, stamping every row in the
// call with the same UTC access date and a sha256 checksum over title,
// relevance note, and URL. The header is written exactly once, when the
// file does not yet exist. An I/O failure is returned to the caller;
// rows written before the failure point remain in the file.
func (l *Ledger) Append(rows []CuratedRow, parser, reliability string) error {
	now := time.Now().UTC()

	_, statErr := os.Stat(l.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "registry: open ledger %s", l.path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return eris.Wrap(err, "registry: write header")
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return eris.Wrap(err, "registry: flush header")
		}
	}

	for _, r := range rows {
		entry := model.RegistryEntry{
			URL:             r.URL,
			Title:           r.Title,
			Publisher:       r.Publisher,
			SourceType:      r.SourceType,
			AccessType:      r.AccessType,
			CoveragePeriod:  r.CoveragePeriod,
			RelevanceNote:   r.RelevanceNote,
			AccessDate:      now,
			Parser:          parser,
			ParserVersion:   parserVersion,
			ReliabilityFlag: reliability,
			Checksum:        model.Checksum(r.Title, r.RelevanceNote, r.URL),
			RowsParsed:      1,
		}
		if err := w.Write(entryFields(entry)); err != nil {
			return eris.Wrapf(err, "registry: write row for %s", r.URL)
		}
		// Flush per row so a mid-call failure never silently drops rows
		// that were already reported as written.
		w.Flush()
		if err := w.Error(); err != nil {
			return eris.Wrapf(err, "registry: flush row for %s", r.URL)
		}
	}

	zap.L().Info("registry: appended curated sources",
		zap.Int("rows", len(rows)),
		zap.String("parser", parser),
		zap.String("path", l.path),
	)
	return nil
}

// Entries reads the full ledger back, skipping the header row.
func (l *Ledger) Entries() ([]model.RegistryEntry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: open ledger %s", l.path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(header)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "registry: read ledger")
	}

	var entries []model.RegistryEntry
	for i, rec := range records {
		if i == 0 {
			continue
		}
		e, err := parseFields(rec)
		if err != nil {
			return nil, eris.Wrapf(err, "registry: ledger row %d", i)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func entryFields(e model.RegistryEntry) []string {
	return []string{
		e.URL, e.Title, e.Publisher, e.SourceType, e.AccessType, e.CoveragePeriod,
		e.RelevanceNote, e.AccessDate.Format(time.RFC3339), e.Parser, e.ParserVersion,
		e.ReliabilityFlag, e.Checksum, strconv.Itoa(e.RowsParsed),
	}
}

func parseFields(rec []string) (model.RegistryEntry, error) {
	accessDate, err := time.Parse(time.RFC3339, rec[7])
	if err != nil {
		return model.RegistryEntry{}, eris.Wrap(err, "parse access_date")
	}
	rowsParsed, err := strconv.Atoi(rec[12])
	if err != nil {
		return model.RegistryEntry{}, eris.Wrap(err, "parse rows_parsed")
	}
	return model.RegistryEntry{
		URL:             rec[0],
		Title:           rec[1],
		Publisher:       rec[2],
		SourceType:      rec[3],
		AccessType:      rec[4],
		CoveragePeriod:  rec[5],
		RelevanceNote:   rec[6],
		AccessDate:      accessDate,
		Parser:          rec[8],
		ParserVersion:   rec[9],
		ReliabilityFlag: rec[10],
		Checksum:        rec[11],
		RowsParsed:      rowsParsed,
	}, nil
}
