// Package model defines the record shapes shared across the harvest pipeline.
package model

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
)

// History maps a year to a normalized market-size value. It marshals to a
// JSON object with string keys so year keys survive round-trips through
// downstream tooling that only understands string-keyed objects.
type History map[int]float64

// MarshalJSON renders the history with string year keys in ascending order.
func (h History) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}
	years := make([]int, 0, len(h))
	for y := range h {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make(map[string]float64, len(h))
	for _, y := range years {
		out[strconv.Itoa(y)] = h[y]
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts a string-keyed object and restores integer year keys.
func (h *History) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*h = nil
		return nil
	}
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "model: unmarshal history")
	}
	out := make(History, len(raw))
	for k, v := range raw {
		y, err := strconv.Atoi(k)
		if err != nil {
			return eris.Wrapf(err, "model: history year %q", k)
		}
		out[y] = v
	}
	*h = out
	return nil
}

// Years returns the history's year keys in ascending order.
func (h History) Years() []int {
	years := make([]int, 0, len(h))
	for y := range h {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// MetricRecord is one normalized market-size observation set derived from a
// single source document. Optional fields are nil when the extractor found
// no corresponding signal. If History has fewer than two distinct years,
// CAGR is nil.
type MetricRecord struct {
	SourceID          string             `json:"source_id"`
	TotalMarketSize   *float64           `json:"total_market_size"`
	Currency          *string            `json:"currency"`
	PeriodStart       *int               `json:"period_start"`
	PeriodEnd         *int               `json:"period_end"`
	History           History            `json:"history"`
	CAGR              *float64           `json:"cagr"`
	SubcategorySplits map[string]float64 `json:"subcategory_splits"`
	ChannelSplits     map[string]float64 `json:"channel_splits"`
	Notes             string             `json:"notes"`
}
