package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hyfhx/stock-screener/internal/screener/signal"
)

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		grade string
	}{
		{70, GradeA},
		{69, GradeB},
		{50, GradeB},
		{49, GradeC},
		{40, GradeC},
		{39, ""},
		{100, GradeA},
		{0, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.grade, Grade(c.score), "score %v", c.score)
	}
}

func TestScoreSumsActiveWeights(t *testing.T) {
	table := WeightTable{
		Version: 3,
		Weights: map[signal.Flag]float64{
			signal.MAGoldenCross: 30,
			signal.VolumeSurge:   15,
			signal.RSIBullish:    20,
			signal.OBVConfirm:    10,
		},
	}
	flags := signal.Set{
		signal.MAGoldenCross: true,
		signal.VolumeSurge:   true,
		signal.RSIBullish:    true,
	}

	at := time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC)
	result := Score("ACME", at, flags, table)

	assert.Equal(t, 65.0, result.Score)
	assert.Equal(t, GradeB, result.Grade)
	assert.Equal(t, uint(3), result.WeightVersion)
	assert.Equal(t, at, result.EvaluatedAt)
	assert.Equal(t, map[signal.Flag]float64{
		signal.MAGoldenCross: 30,
		signal.VolumeSurge:   15,
		signal.RSIBullish:    20,
	}, result.Breakdown)
}

func TestScoreIsDeterministic(t *testing.T) {
	table := WeightTable{
		Version: 1,
		Weights: map[signal.Flag]float64{signal.MACDGoldenCross: 25},
	}
	flags := signal.Set{signal.MACDGoldenCross: true}
	at := time.Now()

	first := Score("ACME", at, flags, table)
	second := Score("ACME", at, flags, table)
	assert.Equal(t, first, second)
}

func TestRescoringUnderNewTableDoesNotMutateOriginal(t *testing.T) {
	flags := signal.Set{signal.MAGoldenCross: true}
	at := time.Now()

	oldTable := WeightTable{Version: 1, Weights: map[signal.Flag]float64{signal.MAGoldenCross: 30}}
	original := Score("ACME", at, flags, oldTable)

	newTable := WeightTable{Version: 2, Weights: map[signal.Flag]float64{signal.MAGoldenCross: 45}}
	rescored := Score("ACME", at, flags, newTable)

	assert.Equal(t, 30.0, original.Score)
	assert.Equal(t, 30.0, original.Breakdown[signal.MAGoldenCross])
	assert.Equal(t, 45.0, rescored.Score)
}

func TestMaxScore(t *testing.T) {
	table := WeightTable{Weights: map[signal.Flag]float64{
		signal.MAGoldenCross:   30,
		signal.MACDGoldenCross: 25,
		signal.VolumeSurge:     15,
	}}
	assert.Equal(t, 70.0, table.MaxScore())
	assert.Equal(t, 0.0, table.Weight(signal.OBVConfirm))
}
