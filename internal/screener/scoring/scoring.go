// Package scoring combines signal flags with a weight table into a graded
// composite score. Scoring is a pure function of (flags, weights) so
// historical flag sets can be re-scored against any weight table version.
package scoring

import (
	"time"

	"github.com/hyfhx/stock-screener/internal/screener/signal"
)

// Grades. Cut points are fixed policy, independent of weight tuning: the
// tuner may change which signals fire, never what a grade means.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"

	gradeAThreshold = 70
	gradeBThreshold = 50
	gradeCThreshold = 40
)

// WeightTable maps each signal flag to its non-negative weight. Tables are
// immutable values: the tuner produces new versions, it never mutates one
// in place.
type WeightTable struct {
	Version uint
	Weights map[signal.Flag]float64
}

// MaxScore returns the sum of all weights, the highest attainable score.
func (t WeightTable) MaxScore() float64 {
	var sum float64
	for _, w := range t.Weights {
		sum += w
	}
	return sum
}

// Weight returns the weight for a flag, 0 when absent from the table.
func (t WeightTable) Weight(f signal.Flag) float64 {
	return t.Weights[f]
}

// Result is the immutable outcome of scoring one symbol.
type Result struct {
	Symbol        string
	Name          string
	EvaluatedAt   time.Time
	Price         float64
	ChangePercent float64
	AvgVolume     float64
	Score         float64
	Grade         string
	Breakdown     map[signal.Flag]float64
	WeightVersion uint
}

// Grade buckets a score. Scores below the C threshold have no grade; they
// are rejected before ranking.
func Grade(score float64) string {
	switch {
	case score >= gradeAThreshold:
		return GradeA
	case score >= gradeBThreshold:
		return GradeB
	case score >= gradeCThreshold:
		return GradeC
	default:
		return ""
	}
}

// Score sums the weights of the active flags and grades the total. The
// breakdown records the contribution of each active flag.
func Score(symbol string, at time.Time, flags signal.Set, table WeightTable) Result {
	breakdown := make(map[signal.Flag]float64)
	var total float64
	for _, f := range flags.Active() {
		w := table.Weight(f)
		breakdown[f] = w
		total += w
	}
	return Result{
		Symbol:        symbol,
		EvaluatedAt:   at,
		Score:         total,
		Grade:         Grade(total),
		Breakdown:     breakdown,
		WeightVersion: table.Version,
	}
}
