package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/pkg/common"
)

func testScreeningConfig() config.Screening {
	return config.Screening{
		MAShortPeriod:    20,
		MALongPeriod:     50,
		CrossLookback:    3,
		RSIPeriod:        14,
		RSIOversold:      30,
		RSIMomentumLow:   50,
		RSIMomentumHigh:  70,
		VolumeSurgeRatio: 1.8,
		VolumeAvgWindow:  20,
		TrendConfirmDays: 3,
		MinAvgVolume:     1_000_000,
	}
}

func seriesOf(closes, volumes []float64) *dto.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]dto.PriceBar, len(closes))
	for i := range closes {
		bars[i] = dto.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   closes[i],
			High:   closes[i],
			Low:    closes[i],
			Close:  closes[i],
			Volume: volumes[i],
		}
	}
	return &dto.PriceSeries{Symbol: "ACME", Bars: bars}
}

func constants(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEvaluateInsufficientHistory(t *testing.T) {
	ev := NewEvaluator(testScreeningConfig())

	closes := constants(40, 100)
	_, err := ev.Evaluate(seriesOf(closes, constants(40, 2_000_000)))
	assert.ErrorIs(t, err, common.ErrInsufficientHistory)
}

func TestEvaluateGoldenCrossWithSurge(t *testing.T) {
	ev := NewEvaluator(testScreeningConfig())

	// Flat at 100 until the last two bars jump, pushing the 20-day average
	// over the 50-day average on the second-to-last bar.
	closes := constants(60, 100)
	closes[58] = 110
	closes[59] = 120

	volumes := constants(60, 2_000_000)
	volumes[59] = 5_000_000

	set, err := ev.Evaluate(seriesOf(closes, volumes))
	require.NoError(t, err)

	assert.True(t, set[MAGoldenCross], "expected golden cross")
	assert.True(t, set[VolumeSurge], "expected volume surge")
	assert.True(t, set[PriceBreakout20D], "expected 20d breakout")
	assert.True(t, set[PriceBreakout52W], "expected 52w breakout")
	assert.False(t, set[TrendContinuation], "close was not above the short MA long enough")
}

func TestEvaluateTrendContinuation(t *testing.T) {
	ev := NewEvaluator(testScreeningConfig())

	// Steady +1 per day: close always leads its own moving average, and the
	// short average never crosses the long one inside the look-back window.
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	set, err := ev.Evaluate(seriesOf(closes, constants(60, 2_000_000)))
	require.NoError(t, err)

	assert.True(t, set[TrendContinuation], "expected trend continuation")
	assert.False(t, set[MAGoldenCross], "no cross inside the look-back window")
	assert.True(t, set[PriceBreakout20D])
	assert.True(t, set[PriceBreakout52W])
	assert.False(t, set[VolumeSurge], "constant volume never surges")
}

func TestVolumeSurgeRejectsIlliquidSymbols(t *testing.T) {
	ev := NewEvaluator(testScreeningConfig())

	// 5x surge ratio, but the trailing average is far below the liquidity
	// floor; the flag must not fire.
	closes := constants(60, 100)
	volumes := constants(60, 100_000)
	volumes[59] = 500_000

	set, err := ev.Evaluate(seriesOf(closes, volumes))
	require.NoError(t, err)
	assert.False(t, set[VolumeSurge])
}

func TestBreakoutExcludesCurrentBar(t *testing.T) {
	ev := NewEvaluator(testScreeningConfig())

	// Latest close equals the prior maximum; a breakout requires strictly
	// exceeding the prior window, so neither flag fires.
	closes := constants(60, 100)
	set, err := ev.Evaluate(seriesOf(closes, constants(60, 2_000_000)))
	require.NoError(t, err)

	assert.False(t, set[PriceBreakout20D])
	assert.False(t, set[PriceBreakout52W])
}

func TestSetActiveStableOrder(t *testing.T) {
	set := Set{VolumeSurge: true, MAGoldenCross: true, OBVConfirm: true}
	assert.Equal(t, []Flag{MAGoldenCross, VolumeSurge, OBVConfirm}, set.Active())
}

func TestMinBars(t *testing.T) {
	ev := NewEvaluator(testScreeningConfig())
	assert.Equal(t, 56, ev.MinBars())
}

func TestUnknownWeightKeys(t *testing.T) {
	weights := map[string]float64{
		"ma_golden_cross": 30,
		"rsi_reversal":    20,
		"macd_cross":      25,
	}
	assert.Equal(t, []string{"macd_cross", "rsi_reversal"}, UnknownWeightKeys(weights))

	valid := make(map[string]float64)
	for _, f := range All() {
		valid[string(f)] = 10
	}
	assert.Empty(t, UnknownWeightKeys(valid))
}
