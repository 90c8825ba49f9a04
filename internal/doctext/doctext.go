// Package doctext flattens heterogeneous uploaded documents into plain
// text blobs suitable for numeric pattern scanning. Flattening is lossy on
// purpose: the extractor only needs enough text to find year/value pairs,
// not full document fidelity.
package doctext

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/compeers-ai/market-harvest/internal/pdf"
)

// maxRows bounds how many spreadsheet rows are flattened into the blob.
const maxRows = 50

// Flatten returns a single text string for the file at path, dispatching
// on extension. Any extraction failure (corrupt file, unsupported
// encoding, missing pdftotext) yields an empty string rather than an
// error; the caller treats empty text as "no metrics extractable".
func Flatten(ctx context.Context, path string, pdfExtractor pdf.Extractor) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return flattenCSV(path)
	case ".xls", ".xlsx":
		return flattenXLSX(path)
	case ".txt", ".text":
		return flattenPlain(path)
	case ".pdf":
		return flattenPDF(ctx, path, pdfExtractor)
	default:
		return ""
	}
}

func flattenCSV(path string) string {
	f, err := os.Open(path)
	if err != nil {
		zap.L().Debug("doctext: open csv", zap.String("path", path), zap.Error(err))
		return ""
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var parts []string
	for range maxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zap.L().Debug("doctext: read csv row", zap.String("path", path), zap.Error(err))
			break
		}
		parts = append(parts, record...)
	}
	return collapse(strings.Join(parts, " "))
}

func flattenXLSX(path string) string {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		zap.L().Debug("doctext: open xlsx", zap.String("path", path), zap.Error(err))
		return ""
	}
	if len(f.Sheets) == 0 {
		return ""
	}

	var parts []string
	for i, row := range f.Sheets[0].Rows {
		if i >= maxRows {
			break
		}
		for _, cell := range row.Cells {
			parts = append(parts, cell.String())
		}
	}
	return collapse(strings.Join(parts, " "))
}

func flattenPlain(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Debug("doctext: read text file", zap.String("path", path), zap.Error(err))
		return ""
	}
	return string(data)
}

func flattenPDF(ctx context.Context, path string, extractor pdf.Extractor) string {
	if extractor == nil {
		return ""
	}
	text, err := extractor.ExtractText(ctx, path)
	if err != nil {
		zap.L().Debug("doctext: extract pdf", zap.String("path", path), zap.Error(err))
		return ""
	}
	return text
}

// collapse squeezes all runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
