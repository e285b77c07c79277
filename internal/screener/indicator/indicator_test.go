package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	got := SMA(values, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 2.0, got[0], 1e-9)
	assert.InDelta(t, 3.0, got[1], 1e-9)
	assert.InDelta(t, 4.0, got[2], 1e-9)
}

func TestSMAInsufficientData(t *testing.T) {
	assert.Nil(t, SMA([]float64{1, 2}, 3))
	assert.Nil(t, SMA(nil, 3))
	assert.Nil(t, SMA([]float64{1, 2, 3}, 0))
}

func TestEMA(t *testing.T) {
	values := []float64{2, 4, 6, 8, 12, 14, 16, 18, 20}

	got := EMA(values, 4)
	require.Len(t, got, 6)
	// Seeded with the SMA of the first 4 values.
	assert.InDelta(t, 5.0, got[0], 1e-9)
	// Next value: (12-5)*0.4 + 5
	assert.InDelta(t, 7.8, got[1], 1e-9)
}

func TestMACDLengthsAligned(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i) + 3*math.Sin(float64(i)/4)
	}

	macdLine, signalLine, histogram := MACD(closes)
	require.NotEmpty(t, macdLine)
	assert.Len(t, signalLine, len(macdLine))
	assert.Len(t, histogram, len(macdLine))
	for i := range macdLine {
		assert.InDelta(t, macdLine[i]-signalLine[i], histogram[i], 1e-9)
	}
}

func TestMACDInsufficientData(t *testing.T) {
	macdLine, signalLine, histogram := MACD(make([]float64, 30))
	assert.Nil(t, macdLine)
	assert.Nil(t, signalLine)
	assert.Nil(t, histogram)
}

func TestRSIAllGainsIs100(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	got := RSI(closes, 14)
	require.Len(t, got, 2)
	assert.InDelta(t, 100.0, got[0], 1e-9)
	assert.InDelta(t, 100.0, got[1], 1e-9)
}

func TestRSIBalancedMovesNear50(t *testing.T) {
	closes := []float64{10}
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			closes = append(closes, closes[len(closes)-1]+1)
		} else {
			closes = append(closes, closes[len(closes)-1]-1)
		}
	}

	got := RSI(closes, 14)
	require.NotEmpty(t, got)
	assert.InDelta(t, 50.0, got[len(got)-1], 5.0)
}

func TestRSIInsufficientData(t *testing.T) {
	assert.Nil(t, RSI(make([]float64, 14), 14))
}

func TestOBV(t *testing.T) {
	closes := []float64{10, 11, 11, 9, 12}
	volumes := []float64{100, 200, 300, 400, 500}

	got := OBV(closes, volumes)
	require.Len(t, got, 5)
	assert.Equal(t, []float64{0, 200, 200, -200, 300}, got)
}

func TestOBVMismatchedInput(t *testing.T) {
	assert.Nil(t, OBV([]float64{1, 2}, []float64{1}))
	assert.Nil(t, OBV([]float64{1}, []float64{1}))
}
