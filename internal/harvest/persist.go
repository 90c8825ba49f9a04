package harvest

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/compeers-ai/market-harvest/internal/model"
)

// Output file names under the harvest output directory.
const (
	MetricsCSV    = "market_metrics.csv"
	MetricsJSON   = "market_metrics.json"
	CitationsCSV  = "citations.csv"
	CitationsJSON = "citations.json"
)

var metricsHeader = []string{
	"source_id", "total_market_size", "currency", "period_start", "period_end",
	"history", "cagr", "subcategory_splits", "channel_splits", "notes",
}

var citationsHeader = []string{
	"source_id", "source_type", "url_or_path", "excerpt", "access_date", "confidence",
}

// persist writes both collections to outDir in row-oriented CSV and
// structured JSON form, creating the directory if absent. Failures
// propagate to the caller: a lost output table is not a recoverable gap.
func (h *Harvester) persist(res *Result, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return eris.Wrapf(err, "harvest: create output dir %s", outDir)
	}

	if err := writeCSV(filepath.Join(outDir, MetricsCSV), metricsHeader, metricRows(res.Metrics)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(outDir, MetricsJSON), res.Metrics); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(outDir, CitationsCSV), citationsHeader, citationRows(res.Citations)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(outDir, CitationsJSON), res.Citations); err != nil {
		return err
	}

	h.log.Debug("persisted harvest outputs", zap.String("out_dir", outDir))
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "harvest: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrapf(err, "harvest: write header to %s", path)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "harvest: write row to %s", path)
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "harvest: flush %s", path)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "harvest: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "harvest: write %s", path)
	}
	return nil
}

func metricRows(metrics []model.MetricRecord) [][]string {
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{
			m.SourceID,
			floatField(m.TotalMarketSize),
			stringField(m.Currency),
			intField(m.PeriodStart),
			intField(m.PeriodEnd),
			jsonField(m.History),
			floatField(m.CAGR),
			jsonField(m.SubcategorySplits),
			jsonField(m.ChannelSplits),
			m.Notes,
		})
	}
	return rows
}

func citationRows(citations []model.CitationRecord) [][]string {
	rows := make([][]string, 0, len(citations))
	for _, c := range citations {
		rows = append(rows, []string{
			c.SourceID,
			string(c.SourceType),
			c.URLOrPath,
			c.Excerpt,
			c.AccessDate.Format(time.RFC3339),
			strconv.FormatFloat(c.Confidence, 'g', -1, 64),
		})
	}
	return rows
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func stringField(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// jsonField renders a nested mapping into one CSV cell. Nil maps become
// empty cells rather than the string "null".
func jsonField(v any) string {
	switch m := v.(type) {
	case model.History:
		if m == nil {
			return ""
		}
	case map[string]float64:
		if m == nil {
			return ""
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
