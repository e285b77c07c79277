// Package signal derives discrete buy signals from a price series. Flag
// evaluation is deterministic: the same series and parameters always produce
// the same flag set.
package signal

import "sort"

// Flag identifies one technical buy signal.
type Flag string

const (
	MAGoldenCross      Flag = "ma_golden_cross"
	MACDGoldenCross    Flag = "macd_golden_cross"
	RSIBullish         Flag = "rsi_bullish"
	VolumeSurge        Flag = "volume_surge"
	PriceBreakout52W   Flag = "price_breakout_52w"
	PriceBreakout20D   Flag = "price_breakout_20d"
	TrendContinuation  Flag = "trend_continuation"
	OBVConfirm         Flag = "obv_confirm"
)

// All lists every flag in a stable order.
func All() []Flag {
	return []Flag{
		MAGoldenCross,
		MACDGoldenCross,
		RSIBullish,
		VolumeSurge,
		PriceBreakout52W,
		PriceBreakout20D,
		TrendContinuation,
		OBVConfirm,
	}
}

// UnknownWeightKeys returns, sorted, the keys of a weight table that match
// no defined flag. Weight tables arrive as config-loaded strings; a stray
// key would silently leave its signal at weight zero.
func UnknownWeightKeys(weights map[string]float64) []string {
	known := make(map[string]bool, len(All()))
	for _, f := range All() {
		known[string(f)] = true
	}
	var out []string
	for k := range weights {
		if !known[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Set is the flags present for one symbol at one evaluation.
type Set map[Flag]bool

// Active returns the present flags in the stable order of All.
func (s Set) Active() []Flag {
	var out []Flag
	for _, f := range All() {
		if s[f] {
			out = append(out, f)
		}
	}
	return out
}
