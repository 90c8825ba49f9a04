package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compeers-ai/market-harvest/internal/model"
)

func TestCAGR(t *testing.T) {
	tests := []struct {
		name    string
		history map[int]float64
		want    float64
		ok      bool
	}{
		{"empty", nil, 0, false},
		{"single year", map[int]float64{2020: 5}, 0, false},
		{"zero start", map[int]float64{2019: 0, 2023: 200}, 0, false},
		{"negative start", map[int]float64{2019: -10, 2023: 200}, 0, false},
		{"four year doubling", map[int]float64{2019: 100, 2023: 200}, 0.1892, true},
		{"one year growth", map[int]float64{2021: 140, 2022: 180}, 0.2857, true},
		{"shrinking market", map[int]float64{2020: 200, 2022: 100}, -0.2929, true},
		{"middle years ignored", map[int]float64{2019: 100, 2021: 999, 2023: 200}, 0.1892, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CAGR(tt.history)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-4)
			}
		})
	}
}

func TestMarketNumbers_FullBlob(t *testing.T) {
	text := "Revenue was $120m. In 2021 140 and in 2022 180 units shipped. " +
		"The total market size 500 million across all segments."

	nums := MarketNumbers(text)

	require.Equal(t, model.History{2021: 140, 2022: 180}, nums.History)

	require.NotNil(t, nums.Total)
	assert.InDelta(t, 5e8, *nums.Total, 1e-6)

	require.NotNil(t, nums.Currency)
	assert.Equal(t, "USD", *nums.Currency)

	require.NotNil(t, nums.CAGR)
	assert.InDelta(t, 0.2857, *nums.CAGR, 1e-4)
}

func TestMarketNumbers_LastMatchWinsPerYear(t *testing.T) {
	nums := MarketNumbers("2020 100 then restated 2020 250")
	require.Equal(t, model.History{2020: 250}, nums.History)
}

func TestMarketNumbers_MalformedValueSkipped(t *testing.T) {
	// The second pair's value is pure punctuation and must not abort the scan.
	nums := MarketNumbers("2019 ... , 2021 300")
	assert.Equal(t, model.History{2021: 300}, nums.History)
}

func TestMarketNumbers_NoSignal(t *testing.T) {
	nums := MarketNumbers("qualitative commentary with no figures at all")
	assert.True(t, nums.Empty())
	assert.Nil(t, nums.History)
	assert.Nil(t, nums.Total)
	assert.Nil(t, nums.CAGR)
}

func TestMarketNumbers_TotalFirstMatchOnly(t *testing.T) {
	nums := MarketNumbers("market size 100 million ... market size 900 million")
	require.NotNil(t, nums.Total)
	assert.InDelta(t, 1e8, *nums.Total, 1e-6)
}

func TestMarketNumbers_CAGRRequiresTwoYears(t *testing.T) {
	nums := MarketNumbers("only 2021 140 mentioned")
	require.Equal(t, model.History{2021: 140}, nums.History)
	assert.Nil(t, nums.CAGR)
}
