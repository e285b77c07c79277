package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyfhx/stock-screener/internal/screener/dto"
)

func proposedWeights(t *testing.T, weights *fakeWeights) map[string]float64 {
	t.Helper()
	require.NotEmpty(t, weights.created)
	var raw map[string]float64
	require.NoError(t, json.Unmarshal(weights.created[len(weights.created)-1].Weights, &raw))
	return raw
}

func TestTuneBoundsEachStep(t *testing.T) {
	outcomes := &fakeOutcomes{stats: []dto.AccuracyStat{
		{Signal: "ma_golden_cross", SampleCount: 100, HitRate: 0.6},
		{Signal: "rsi_bullish", SampleCount: 50, HitRate: 0.2},
		{Signal: "macd_golden_cross", SampleCount: 5, HitRate: 0.9},
	}}
	weights := &fakeWeights{}
	svc := NewTunerService(testConfig(), newTestLogger(t), outcomes, weights)

	report, err := svc.Tune(context.Background(), dto.WeightTunerPayload{})
	require.NoError(t, err)

	proposed := proposedWeights(t, weights)

	// Cohort mean over eligible signals is (0.6+0.2)/2 = 0.4. The golden
	// cross raw delta 30*(0.6-0.4) = 6 equals the 20% step cap.
	assert.InDelta(t, 36, proposed["ma_golden_cross"], 0.001)
	// Below the floor hit rate: pulled down by the full step.
	assert.InDelta(t, 16, proposed["rsi_bullish"], 0.001)
	// Too few samples: untouched.
	assert.InDelta(t, 25, proposed["macd_golden_cross"], 0.001)

	assert.Len(t, report.Applied, 2)
	assert.Equal(t, weights.created[0].ID, report.ProposedVersion)
	assert.False(t, report.Committed)
	assert.Empty(t, weights.committed, "proposing must not activate")
	assert.False(t, weights.created[0].Active)
}

func TestTuneNeverDropsBelowWeightFloor(t *testing.T) {
	cfg := testConfig()
	cfg.WeightsSeed = map[string]float64{"rsi_bullish": 5.5, "ma_golden_cross": 30}
	outcomes := &fakeOutcomes{stats: []dto.AccuracyStat{
		{Signal: "rsi_bullish", SampleCount: 60, HitRate: 0.1},
		{Signal: "ma_golden_cross", SampleCount: 60, HitRate: 0.5},
	}}
	weights := &fakeWeights{}
	svc := NewTunerService(cfg, newTestLogger(t), outcomes, weights)

	_, err := svc.Tune(context.Background(), dto.WeightTunerPayload{})
	require.NoError(t, err)

	proposed := proposedWeights(t, weights)
	assert.InDelta(t, 5, proposed["rsi_bullish"], 0.001, "full step would land at 4.4, floor holds at 5")
}

func TestTuneSkipsWithoutEnoughSamples(t *testing.T) {
	outcomes := &fakeOutcomes{stats: []dto.AccuracyStat{
		{Signal: "ma_golden_cross", SampleCount: 3, HitRate: 1.0},
	}}
	weights := &fakeWeights{}
	svc := NewTunerService(testConfig(), newTestLogger(t), outcomes, weights)

	report, err := svc.Tune(context.Background(), dto.WeightTunerPayload{})
	require.NoError(t, err)

	assert.Zero(t, report.ProposedVersion)
	assert.Empty(t, weights.created)
	assert.NotEmpty(t, report.Warnings)
}

func TestTuneAutoCommitActivatesProposal(t *testing.T) {
	outcomes := &fakeOutcomes{stats: []dto.AccuracyStat{
		{Signal: "ma_golden_cross", SampleCount: 100, HitRate: 0.7},
		{Signal: "rsi_bullish", SampleCount: 100, HitRate: 0.3},
	}}
	weights := &fakeWeights{}
	svc := NewTunerService(testConfig(), newTestLogger(t), outcomes, weights)

	report, err := svc.Tune(context.Background(), dto.WeightTunerPayload{AutoCommit: true})
	require.NoError(t, err)

	assert.True(t, report.Committed)
	require.Len(t, weights.committed, 1)
	assert.Equal(t, report.ProposedVersion, weights.committed[0])
}

func TestTuneCapsSingleWeight(t *testing.T) {
	cfg := testConfig()
	cfg.Tuner.WeightCapRatio = 0.3
	cfg.WeightsSeed = map[string]float64{
		"ma_golden_cross": 50,
		"rsi_bullish":    25,
		"volume_surge":    25,
	}
	outcomes := &fakeOutcomes{stats: []dto.AccuracyStat{
		{Signal: "ma_golden_cross", SampleCount: 100, HitRate: 0.8},
		{Signal: "rsi_bullish", SampleCount: 100, HitRate: 0.4},
		{Signal: "volume_surge", SampleCount: 100, HitRate: 0.4},
	}}
	weights := &fakeWeights{}
	svc := NewTunerService(cfg, newTestLogger(t), outcomes, weights)

	report, err := svc.Tune(context.Background(), dto.WeightTunerPayload{})
	require.NoError(t, err)

	// Uncapped the golden cross lands at 60 of a 103.33 total; the 30% cap
	// clamps it to 31.
	proposed := proposedWeights(t, weights)
	assert.InDelta(t, 31.0, proposed["ma_golden_cross"], 0.01)
	assert.NotEmpty(t, report.Warnings)
}
