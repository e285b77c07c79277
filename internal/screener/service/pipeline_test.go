package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/internal/screener/signal"
	"github.com/hyfhx/stock-screener/pkg/common"
)

func barsOf(closes, volumes []float64) *dto.PriceSeries {
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
	return &dto.PriceSeries{Symbol: "TEST", Bars: bars}
}

func flatValues(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// goldenCrossSeries triggers ma_golden_cross, macd_golden_cross,
// volume_surge, price_breakout_52w, price_breakout_20d and obv_confirm under
// testConfig, scoring 30+25+15+20+10+10 = 110 on the seed weight table. The
// two-bar jump keeps rsi_bullish out (RSI overshoots the momentum band) and
// trend_continuation out (the close sat on the short average two bars ago).
func goldenCrossSeries() *dto.PriceSeries {
	closes := flatValues(60, 100)
	closes[58] = 110
	closes[59] = 120
	volumes := flatValues(60, 2_000_000)
	volumes[59] = 5_000_000
	return barsOf(closes, volumes)
}

func newPipelineForTest(t *testing.T, market *fakeMarketData, stocks *fakeStocks, outcomes *fakeOutcomes, runs *fakeRuns, weights *fakeWeights) PipelineService {
	t.Helper()
	return NewPipelineService(testConfig(), newTestLogger(t), market, stocks, outcomes, runs, weights, nil)
}

func TestScreenIsolatesSymbolFailures(t *testing.T) {
	market := &fakeMarketData{
		series: map[string]*dto.PriceSeries{
			"AAA": goldenCrossSeries(),
			"CCC": barsOf(flatValues(60, 100), flatValues(60, 2_000_000)),
			"DDD": barsOf(flatValues(40, 100), flatValues(40, 2_000_000)),
		},
		errs: map[string]error{"BBB": common.ErrDataUnavailable},
	}
	outcomes := &fakeOutcomes{}
	runs := &fakeRuns{}
	svc := newPipelineForTest(t, market, &fakeStocks{codes: []string{"AAA", "BBB", "CCC", "DDD"}}, outcomes, runs, &fakeWeights{})

	results, summary, err := svc.Screen(context.Background(), dto.StockScreenerPayload{})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalSymbols)
	assert.Equal(t, 2, summary.Evaluated, "flat symbol still counts as evaluated")
	assert.Equal(t, 1, summary.Errored)
	assert.Equal(t, 1, summary.Skipped, "short history is skipped, not errored")

	require.Len(t, results, 1)
	assert.Equal(t, "AAA", results[0].Symbol)
	assert.InDelta(t, 110, results[0].Score, 0.001)
	assert.Equal(t, "A", results[0].Grade)
	assert.Equal(t, 1, summary.HighScoreCount)

	require.NotNil(t, runs.updated)
	assert.Equal(t, entity.RunStatusCompleted, runs.updated.Status)
	assert.Equal(t, 1, runs.updated.SignalsFound)
	assert.Equal(t, 1, runs.updated.HighScoreCount)
}

func TestScreenRanksByScoreThenSymbol(t *testing.T) {
	market := &fakeMarketData{
		series: map[string]*dto.PriceSeries{
			"ZZZ": goldenCrossSeries(),
			"AAA": goldenCrossSeries(),
			"MMM": goldenCrossSeries(),
		},
	}
	svc := newPipelineForTest(t, market, &fakeStocks{codes: []string{"ZZZ", "AAA", "MMM"}}, &fakeOutcomes{}, &fakeRuns{}, &fakeWeights{})

	results, _, err := svc.Screen(context.Background(), dto.StockScreenerPayload{TopN: 2})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "AAA", results[0].Symbol)
	assert.Equal(t, "MMM", results[1].Symbol)
}

func TestScreenRecordsOutcomesIdempotently(t *testing.T) {
	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"AAA": goldenCrossSeries()}}
	outcomes := &fakeOutcomes{}
	svc := newPipelineForTest(t, market, &fakeStocks{codes: []string{"AAA"}}, outcomes, &fakeRuns{}, &fakeWeights{})

	_, _, err := svc.Screen(context.Background(), dto.StockScreenerPayload{})
	require.NoError(t, err)

	require.Len(t, outcomes.recorded, 1)
	rec := outcomes.recorded[0]
	assert.Equal(t, "AAA", rec.StockCode)
	assert.Equal(t, 7, rec.HorizonDays)
	assert.InDelta(t, 110, rec.Score, 0.001)
	assert.NotEmpty(t, rec.RunID)
	assert.False(t, rec.EvaluatedAt.IsZero())
	assert.NotEmpty(t, rec.Signals)
}

func TestScreenUsesActiveWeightTable(t *testing.T) {
	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"AAA": goldenCrossSeries()}}
	weights := &fakeWeights{active: &entity.WeightTableVersion{
		ID:      3,
		Weights: datatypes.JSON(`{"ma_golden_cross": 40}`),
		Active:  true,
	}}
	svc := newPipelineForTest(t, market, &fakeStocks{codes: []string{"AAA"}}, &fakeOutcomes{}, &fakeRuns{}, weights)

	results, _, err := svc.Screen(context.Background(), dto.StockScreenerPayload{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.InDelta(t, 40, results[0].Score, 0.001, "flags absent from the table contribute nothing")
	assert.Equal(t, uint(3), results[0].WeightVersion)
}

func TestScreenCancelledRunRecordsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"AAA": goldenCrossSeries()}}
	outcomes := &fakeOutcomes{}
	runs := &fakeRuns{}
	svc := newPipelineForTest(t, market, &fakeStocks{codes: []string{"AAA"}}, outcomes, runs, &fakeWeights{})

	_, _, err := svc.Screen(ctx, dto.StockScreenerPayload{Symbols: []string{"AAA"}})
	require.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, outcomes.recorded)
	require.NotNil(t, runs.updated)
	assert.Equal(t, entity.RunStatusFailed, runs.updated.Status)
}

func TestScreenRejectsIlliquidAndCheapSymbols(t *testing.T) {
	thin := goldenCrossSeries()
	for i := range thin.Bars {
		thin.Bars[i].Volume = 100_000
	}
	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"THN": thin}}
	svc := newPipelineForTest(t, market, &fakeStocks{codes: []string{"THN"}}, &fakeOutcomes{}, &fakeRuns{}, &fakeWeights{})

	results, summary, err := svc.Screen(context.Background(), dto.StockScreenerPayload{})
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Evaluated)
}

func TestSeedWeightsCoverEveryFlag(t *testing.T) {
	seed := testConfig().WeightsSeed

	assert.Empty(t, signal.UnknownWeightKeys(seed))
	for _, f := range signal.All() {
		assert.Greater(t, seed[string(f)], 0.0, "flag %s has no seed weight", f)
	}
}

func TestScreenTimeoutEmitsPartialResults(t *testing.T) {
	cfg := testConfig()
	cfg.Screening.RunTimeout = 250 * time.Millisecond

	market := &fakeMarketData{
		series: map[string]*dto.PriceSeries{
			"AAA": goldenCrossSeries(),
			"SLW": goldenCrossSeries(),
		},
		delays: map[string]time.Duration{"SLW": 5 * time.Second},
	}
	outcomes := &fakeOutcomes{}
	runs := &fakeRuns{}
	svc := NewPipelineService(cfg, newTestLogger(t), market, &fakeStocks{codes: []string{"AAA", "SLW"}}, outcomes, runs, &fakeWeights{}, nil)

	results, summary, err := svc.Screen(context.Background(), dto.StockScreenerPayload{})
	require.NoError(t, err, "a timed-out run still returns what it collected")

	assert.True(t, summary.TimedOut)
	require.Len(t, results, 1)
	assert.Equal(t, "AAA", results[0].Symbol)
	require.Len(t, outcomes.recorded, 1)

	require.NotNil(t, runs.updated)
	assert.Equal(t, entity.RunStatusPartial, runs.updated.Status)
	assert.NotEmpty(t, runs.updated.Warnings)
}

func TestScreenWarnsWhenSlowerThanBaseline(t *testing.T) {
	cfg := testConfig()
	cfg.Screening.DurationAlertRatio = 2.0

	market := &fakeMarketData{
		series: map[string]*dto.PriceSeries{"AAA": goldenCrossSeries()},
		delays: map[string]time.Duration{"AAA": 20 * time.Millisecond},
	}
	runs := &fakeRuns{baseline: 0.01}
	notifier := &fakeNotifier{}
	svc := NewPipelineService(cfg, newTestLogger(t), market, &fakeStocks{codes: []string{"AAA"}}, &fakeOutcomes{}, runs, &fakeWeights{}, notifier)

	_, _, err := svc.Screen(context.Background(), dto.StockScreenerPayload{})
	require.NoError(t, err)

	require.NotNil(t, runs.updated)
	assert.Equal(t, entity.RunStatusCompleted, runs.updated.Status)
	require.Len(t, runs.updated.Warnings, 1)
	assert.Contains(t, runs.updated.Warnings[0], "baseline")
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "slow")
}
