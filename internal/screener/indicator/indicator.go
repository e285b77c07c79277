// Package indicator provides pure technical indicator calculations over
// price/volume series. Functions return an empty slice when the input is
// shorter than the required window; callers treat that as insufficient
// history rather than a zero reading.
package indicator

// SMA computes the simple moving average with the given period. The result
// has len(values)-period+1 entries, aligned to the end of the input.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// EMA computes the exponential moving average, seeded with the SMA of the
// first period values.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	multiplier := 2.0 / float64(period+1)

	var seed float64
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)
	for _, v := range values[period:] {
		prev := out[len(out)-1]
		out = append(out, (v-prev)*multiplier+prev)
	}
	return out
}

// MACD computes the 12/26 EMA difference, its 9-period signal line and the
// histogram. All three slices are trimmed to equal length, aligned to the
// end of the input. Returns nils when fewer than 26+9 bars are available.
func MACD(closes []float64) (macdLine, signalLine, histogram []float64) {
	const (
		fastPeriod   = 12
		slowPeriod   = 26
		signalPeriod = 9
	)
	if len(closes) < slowPeriod+signalPeriod {
		return nil, nil, nil
	}

	fast := EMA(closes, fastPeriod)
	slow := EMA(closes, slowPeriod)
	fast = fast[len(fast)-len(slow):]

	macdLine = make([]float64, len(slow))
	for i := range slow {
		macdLine[i] = fast[i] - slow[i]
	}

	signalLine = EMA(macdLine, signalPeriod)
	macdLine = macdLine[len(macdLine)-len(signalLine):]

	histogram = make([]float64, len(signalLine))
	for i := range signalLine {
		histogram[i] = macdLine[i] - signalLine[i]
	}
	return macdLine, signalLine, histogram
}

// RSI computes the relative strength index using simple averages of gains
// and losses over the period. The result is aligned to the end of the input
// with len(closes)-period entries.
func RSI(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}
	out := make([]float64, 0, len(closes)-period)
	for i := period; i < len(closes); i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gain += change
			} else {
				loss += -change
			}
		}
		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)
		if avgLoss == 0 {
			out = append(out, 100)
			continue
		}
		rs := avgGain / avgLoss
		out = append(out, 100-100/(1+rs))
	}
	return out
}

// OBV computes on-balance volume: cumulative volume added on up closes and
// subtracted on down closes.
func OBV(closes, volumes []float64) []float64 {
	if len(closes) != len(volumes) || len(closes) < 2 {
		return nil
	}
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// Max returns the maximum of values, or 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
