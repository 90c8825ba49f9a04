package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_MarshalStringKeys(t *testing.T) {
	h := History{2021: 140, 2022: 180}
	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2021":140,"2022":180}`, string(data))
}

func TestHistory_RoundTrip(t *testing.T) {
	orig := History{2019: 100.5, 2023: 200}
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got History
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig, got)
}

func TestHistory_MarshalNil(t *testing.T) {
	var h History
	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestHistory_UnmarshalBadYear(t *testing.T) {
	var h History
	err := json.Unmarshal([]byte(`{"not-a-year":1}`), &h)
	require.Error(t, err)
}

func TestHistory_Years(t *testing.T) {
	h := History{2023: 1, 2019: 2, 2021: 3}
	assert.Equal(t, []int{2019, 2021, 2023}, h.Years())
}

func TestMetricRecord_JSONFieldNames(t *testing.T) {
	total := 5e8
	cur := "USD"
	m := MetricRecord{
		SourceID:        "report.pdf",
		TotalMarketSize: &total,
		Currency:        &cur,
		History:         History{2021: 140},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"source_id", "total_market_size", "currency", "period_start", "period_end",
		"history", "cagr", "subcategory_splits", "channel_splits", "notes",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "report.pdf", raw["source_id"])
}

func TestNewCitation(t *testing.T) {
	before := time.Now().UTC()
	c := NewCitation("report.pdf", SourceUpload, "/uploads/report.pdf", "snippet")
	after := time.Now().UTC()

	assert.Equal(t, "report.pdf", c.SourceID)
	assert.Equal(t, SourceUpload, c.SourceType)
	assert.Equal(t, DefaultConfidence, c.Confidence)
	assert.False(t, c.AccessDate.Before(before))
	assert.False(t, c.AccessDate.After(after))
	assert.Equal(t, time.UTC, c.AccessDate.Location())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
	// Rune-bounded, never splits a multibyte character.
	assert.Equal(t, "héll", Truncate("héllo", 4))
}

func TestChecksum(t *testing.T) {
	a := Checksum("Global Widget Report", "annual sizing", "https://example.com/widgets")
	b := Checksum("Global Widget Report", "annual sizing", "https://example.com/widgets")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, Checksum("Global Widget report", "annual sizing", "https://example.com/widgets"))
	assert.NotEqual(t, a, Checksum("Global Widget Report", "annual sizing.", "https://example.com/widgets"))
	assert.NotEqual(t, a, Checksum("Global Widget Report", "annual sizing", "https://example.com/widget"))
}
