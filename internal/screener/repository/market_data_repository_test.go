package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/pkg/logger"
)

func TestToPriceSeriesToleratesRaggedColumns(t *testing.T) {
	// Three timestamps, but the volume column carries a single entry and
	// the close column has a null hole.
	payload := `{
		"meta": {"symbol": "AAA", "shortName": "Test Corp"},
		"timestamp": [1735800000, 1735886400, 1735972800],
		"indicators": {"quote": [{
			"open":   [100, 101, 102],
			"high":   [101, 102, 103],
			"low":    [99, 100, 101],
			"close":  [100.5, null, 102.5],
			"volume": [2000000]
		}]}
	}`
	var result dto.YahooChartResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))

	series := toPriceSeries("AAA", &result)

	require.Len(t, series.Bars, 1, "only the fully populated bar survives")
	assert.Equal(t, "Test Corp", series.Name)
	assert.InDelta(t, 100.5, series.Bars[0].Close, 0.001)
	assert.InDelta(t, 2_000_000, series.Bars[0].Volume, 0.001)
}

func TestToPriceSeriesEmptyQuote(t *testing.T) {
	var result dto.YahooChartResult
	result.Timestamp = []int64{1735800000}

	series := toPriceSeries("AAA", &result)
	assert.Empty(t, series.Bars)
}

func TestNewMarketDataRepositoryDefaultsRateLimit(t *testing.T) {
	log, err := logger.New("error", "json")
	require.NoError(t, err)

	// A missing market_data section must degrade to defaults, not divide
	// by zero at startup.
	repo := NewMarketDataRepository(&config.Config{}, log)
	assert.NotNil(t, repo)
}
