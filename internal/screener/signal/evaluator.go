package signal

import (
	"github.com/hyfhx/stock-screener/internal/screener/config"
	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/internal/screener/indicator"
	"github.com/hyfhx/stock-screener/pkg/common"
)

const obvTrendWindow = 10

// Evaluator derives the flag set for a symbol from its price series.
type Evaluator struct {
	cfg config.Screening
}

// NewEvaluator creates an Evaluator with the given screening parameters.
func NewEvaluator(cfg config.Screening) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// MinBars returns the shortest series the evaluator accepts: the long moving
// average window plus the cross look-back and confirmation days.
func (e *Evaluator) MinBars() int {
	return e.cfg.MALongPeriod + e.cfg.CrossLookback + e.cfg.TrendConfirmDays
}

// Evaluate computes the flag set for the series. Series shorter than
// MinBars return common.ErrInsufficientHistory; the caller must skip the
// symbol, never score it zero.
func (e *Evaluator) Evaluate(series *dto.PriceSeries) (Set, error) {
	if len(series.Bars) < e.MinBars() {
		return nil, common.ErrInsufficientHistory
	}

	closes := series.Closes()
	volumes := series.Volumes()

	set := Set{}

	e.evalMovingAverages(closes, set)
	e.evalMACD(closes, set)
	e.evalRSI(closes, set)
	e.evalVolumeSurge(volumes, set)
	e.evalBreakouts(closes, set)
	e.evalOBV(closes, volumes, set)

	return set, nil
}

// evalMovingAverages detects the short-over-long golden cross within the
// look-back window (confirmed by a rising close) and the trend-continuation
// persistence signal: the close held above the short average for at least
// TrendConfirmDays consecutive sessions.
func (e *Evaluator) evalMovingAverages(closes []float64, set Set) {
	maShort := indicator.SMA(closes, e.cfg.MAShortPeriod)
	maLong := indicator.SMA(closes, e.cfg.MALongPeriod)
	if len(maShort) == 0 || len(maLong) == 0 {
		return
	}
	// Align both averages to the end of the series.
	maShort = maShort[len(maShort)-len(maLong):]

	if crossedAbove(maShort, maLong, e.cfg.CrossLookback) && risingClose(closes) {
		set[MAGoldenCross] = true
	}

	days := e.cfg.TrendConfirmDays
	if days > 0 && len(maShort) >= days {
		persistent := true
		for i := 0; i < days; i++ {
			c := closes[len(closes)-1-i]
			m := maShort[len(maShort)-1-i]
			if c <= m {
				persistent = false
				break
			}
		}
		if persistent {
			set[TrendContinuation] = true
		}
	}
}

// evalMACD detects the MACD-over-signal golden cross within the look-back
// window; a full bullish alignment (MACD, signal and histogram all rising)
// also qualifies.
func (e *Evaluator) evalMACD(closes []float64, set Set) {
	macdLine, signalLine, histogram := indicator.MACD(closes)
	if len(macdLine) < 2 {
		return
	}

	if crossedAbove(macdLine, signalLine, e.cfg.CrossLookback) && rising(macdLine, 2) {
		set[MACDGoldenCross] = true
		return
	}
	if rising(macdLine, 2) && rising(signalLine, 2) && rising(histogram, 2) &&
		macdLine[len(macdLine)-1] > 0 {
		set[MACDGoldenCross] = true
	}
}

// evalRSI fires on an upward cross out of the oversold zone, or on a rising
// RSI inside the configured momentum band.
func (e *Evaluator) evalRSI(closes []float64, set Set) {
	rsi := indicator.RSI(closes, e.cfg.RSIPeriod)
	if len(rsi) < 3 {
		return
	}
	current := rsi[len(rsi)-1]
	prev := rsi[len(rsi)-2]

	lookback := e.cfg.CrossLookback + 1
	if lookback > len(rsi)-1 {
		lookback = len(rsi) - 1
	}
	recentMin := rsi[len(rsi)-1-lookback]
	for _, v := range rsi[len(rsi)-1-lookback : len(rsi)-1] {
		if v < recentMin {
			recentMin = v
		}
	}

	oversoldRebound := recentMin < e.cfg.RSIOversold && current > e.cfg.RSIOversold && current > prev
	momentumBand := current >= e.cfg.RSIMomentumLow && current <= e.cfg.RSIMomentumHigh && current > prev

	if oversoldRebound || momentumBand {
		set[RSIBullish] = true
	}
}

// evalVolumeSurge requires the latest volume to exceed the trailing average
// by the surge ratio AND the average itself to clear the liquidity floor.
// Illiquid symbols never surge, no matter the ratio.
func (e *Evaluator) evalVolumeSurge(volumes []float64, set Set) {
	window := e.cfg.VolumeAvgWindow
	if len(volumes) < window+1 {
		return
	}
	trailing := volumes[len(volumes)-1-window : len(volumes)-1]
	var sum float64
	for _, v := range trailing {
		sum += v
	}
	avg := sum / float64(window)
	if avg < e.cfg.MinAvgVolume || avg == 0 {
		return
	}
	if volumes[len(volumes)-1] >= avg*e.cfg.VolumeSurgeRatio {
		set[VolumeSurge] = true
	}
}

// evalBreakouts compares the latest close against the prior-window maximum
// close, excluding the current bar so a flat series never self-compares.
func (e *Evaluator) evalBreakouts(closes []float64, set Set) {
	last := closes[len(closes)-1]
	prior := closes[:len(closes)-1]

	window52w := 250
	if len(prior) < window52w {
		window52w = len(prior)
	}
	if last > indicator.Max(prior[len(prior)-window52w:]) {
		set[PriceBreakout52W] = true
	}

	if len(prior) >= 20 && last > indicator.Max(prior[len(prior)-20:]) {
		set[PriceBreakout20D] = true
	}
}

// evalOBV confirms only the rising-agreement case: OBV above its short
// average and both OBV and price trending up over the same window.
func (e *Evaluator) evalOBV(closes, volumes []float64, set Set) {
	obv := indicator.OBV(closes, volumes)
	if len(obv) < obvTrendWindow+1 {
		return
	}
	obvSMA := indicator.SMA(obv, obvTrendWindow)
	obvLast := obv[len(obv)-1]

	obvRising := obvLast > obv[len(obv)-1-obvTrendWindow]
	priceRising := closes[len(closes)-1] > closes[len(closes)-1-obvTrendWindow]

	if obvRising && priceRising && obvLast > obvSMA[len(obvSMA)-1] {
		set[OBVConfirm] = true
	}
}

// crossedAbove reports whether a crossed from at-or-below to above b within
// the final lookback steps.
func crossedAbove(a, b []float64, lookback int) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	a = a[len(a)-n:]
	b = b[len(b)-n:]
	if lookback < 1 {
		lookback = 1
	}
	start := n - lookback
	if start < 1 {
		start = 1
	}
	for i := start; i < n; i++ {
		if a[i] > b[i] && a[i-1] <= b[i-1] {
			return true
		}
	}
	return false
}

// rising reports whether the final steps of values are strictly increasing.
func rising(values []float64, steps int) bool {
	if len(values) < steps+1 {
		return false
	}
	for i := len(values) - steps; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}

func risingClose(closes []float64) bool {
	return len(closes) >= 2 && closes[len(closes)-1] > closes[len(closes)-2]
}
