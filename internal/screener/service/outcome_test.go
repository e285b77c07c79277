package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
)

// risingSeries has close[i] = 100 + i over n daily bars from 2025-01-02.
func risingSeries(n int) *dto.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return barsOf(closes, flatValues(n, 2_000_000))
}

func pendingOutcome(id int64, evaluatedAt time.Time) entity.ScreeningOutcome {
	return entity.ScreeningOutcome{
		ID:          id,
		StockCode:   "AAA",
		EvaluatedAt: evaluatedAt,
		Price:       105,
		Score:       55,
		Grade:       "B",
		HorizonDays: 7,
	}
}

func TestReconcileWritesRealizedPrices(t *testing.T) {
	series := risingSeries(20)
	evaluatedAt := series.Bars[5].Date

	outcomes := &fakeOutcomes{pending: []entity.ScreeningOutcome{pendingOutcome(1, evaluatedAt)}}
	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"AAA": series}}
	svc := NewOutcomeService(testConfig(), newTestLogger(t), market, outcomes)

	summary, err := svc.Reconcile(context.Background(), dto.OutcomeReconcilePayload{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Scanned)
	assert.Equal(t, 1, summary.Reconciled)
	assert.Zero(t, summary.Conflicts)
	assert.Zero(t, summary.Errored)

	update, ok := outcomes.reconciled[1]
	require.True(t, ok)
	// Seven bars after the 105 baseline the close is 112.
	assert.InDelta(t, 112, update.PriceAfter, 0.001)
	assert.InDelta(t, (112.0-105.0)/105.0*100, update.RealizedReturn, 0.001)
	assert.InDelta(t, (112.0-105.0)/105.0*100, update.MaxGain, 0.001)
	assert.Zero(t, update.MaxLoss, "a monotonically rising path never dips below entry")
	assert.True(t, update.Hit)
	assert.False(t, update.ReconciledAt.IsZero())
}

func TestReconcileIsAtMostOnce(t *testing.T) {
	series := risingSeries(20)
	evaluatedAt := series.Bars[5].Date

	outcomes := &fakeOutcomes{pending: []entity.ScreeningOutcome{pendingOutcome(1, evaluatedAt)}}
	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"AAA": series}}
	svc := NewOutcomeService(testConfig(), newTestLogger(t), market, outcomes)

	_, err := svc.Reconcile(context.Background(), dto.OutcomeReconcilePayload{})
	require.NoError(t, err)
	first := outcomes.reconciled[1]

	// A second pass sees the same pending row but the conditional update
	// refuses to overwrite it.
	summary, err := svc.Reconcile(context.Background(), dto.OutcomeReconcilePayload{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Conflicts)
	assert.Zero(t, summary.Reconciled)
	assert.Equal(t, first, outcomes.reconciled[1], "first reconciliation is preserved")
}

func TestReconcileDefersUnmaturedOutcomes(t *testing.T) {
	// Only 4 bars after the baseline, horizon needs 7.
	series := risingSeries(10)
	evaluatedAt := series.Bars[5].Date

	outcomes := &fakeOutcomes{pending: []entity.ScreeningOutcome{pendingOutcome(1, evaluatedAt)}}
	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"AAA": series}}
	svc := NewOutcomeService(testConfig(), newTestLogger(t), market, outcomes)

	summary, err := svc.Reconcile(context.Background(), dto.OutcomeReconcilePayload{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Scanned)
	assert.Zero(t, summary.Reconciled)
	assert.Zero(t, summary.Errored)
	assert.Empty(t, outcomes.reconciled)
}

func TestReconcileMarksMissBelowThreshold(t *testing.T) {
	// Flat path: realized return 0, below the 3% hit threshold.
	series := barsOf(flatValues(20, 100), flatValues(20, 2_000_000))
	evaluatedAt := series.Bars[5].Date

	outcome := pendingOutcome(1, evaluatedAt)
	outcome.Price = 100
	outcomes := &fakeOutcomes{pending: []entity.ScreeningOutcome{outcome}}
	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"AAA": series}}
	svc := NewOutcomeService(testConfig(), newTestLogger(t), market, outcomes)

	_, err := svc.Reconcile(context.Background(), dto.OutcomeReconcilePayload{})
	require.NoError(t, err)

	update := outcomes.reconciled[1]
	assert.Zero(t, update.RealizedReturn)
	assert.False(t, update.Hit)
}

func TestReconcileWidensFetchForStaleRows(t *testing.T) {
	// A row pending for half a year needs more than the default quarter of
	// history to find its baseline bar.
	evaluatedAt := time.Now().AddDate(0, -6, 0)
	outcomes := &fakeOutcomes{pending: []entity.ScreeningOutcome{pendingOutcome(1, evaluatedAt)}}
	market := &fakeMarketData{series: map[string]*dto.PriceSeries{"AAA": risingSeries(20)}}
	svc := NewOutcomeService(testConfig(), newTestLogger(t), market, outcomes)

	_, err := svc.Reconcile(context.Background(), dto.OutcomeReconcilePayload{})
	require.NoError(t, err)

	require.Len(t, market.params, 1)
	assert.Equal(t, "1d", market.params[0].Interval)
	assert.Equal(t, "1y", market.params[0].Range)
}

func TestReconcileRangeGrowsWithRowAge(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "3mo", reconcileRange(now.AddDate(0, 0, -30)))
	assert.Equal(t, "6mo", reconcileRange(now.AddDate(0, 0, -90)))
	assert.Equal(t, "1y", reconcileRange(now.AddDate(0, 0, -200)))
	assert.Equal(t, "2y", reconcileRange(now.AddDate(0, 0, -400)))
}
