// Package extract scans flattened document text for market-size signals:
// per-year value pairs, an overall market-size figure, a currency hint,
// and the derived compound growth rate.
package extract

import (
	"regexp"
	"strconv"

	"github.com/compeers-ai/market-harvest/internal/model"
	"github.com/compeers-ai/market-harvest/internal/normalize"
)

var (
	yearValuePattern  = regexp.MustCompile(`(20\d{2})[^0-9]{0,5}([\d,.]+)`)
	marketSizePattern = regexp.MustCompile(`(?i)market size.*?([\d,.]+(?:\s*(?:billion|million|bn|mn|m))?)`)
)

// Numbers is the extractor's output for one text blob. Optional fields are
// nil when no corresponding signal was found.
type Numbers struct {
	History  model.History
	Total    *float64
	Currency *string
	CAGR     *float64
}

// Empty reports whether the blob yielded no numeric signal at all.
func (n Numbers) Empty() bool {
	return n.Total == nil && len(n.History) == 0
}

// MarketNumbers extracts (history, total, currency, cagr) from a text blob.
//
// Year pairs are 4-digit years in 2000-2099 followed within a few
// characters by a numeric token. Later matches for an already-seen year
// overwrite earlier ones; malformed values are skipped without aborting
// the rest of the scan. The overall total comes from the first
// case-insensitive "market size ... <number>" phrase.
func MarketNumbers(text string) Numbers {
	var out Numbers

	history := model.History{}
	for _, m := range yearValuePattern.FindAllStringSubmatch(text, -1) {
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		v, ok := normalize.ParseValue(m[2])
		if !ok {
			continue
		}
		history[year] = v
	}
	if len(history) > 0 {
		out.History = history
	}

	if m := marketSizePattern.FindStringSubmatch(text); m != nil {
		if v, ok := normalize.ParseValue(m[1]); ok {
			out.Total = &v
		}
	}

	if cur, ok := normalize.DetectCurrency(text); ok {
		out.Currency = &cur
	}

	if cagr, ok := CAGR(out.History); ok {
		out.CAGR = &cagr
	}

	return out
}
