// Package technical computes the indicator set over an OHLCV series. Every
// indicator is null-gated: when the series is shorter than an indicator's
// minimum lookback, that indicator's fields stay null while the rest of the
// report is computed normally. Values are rounded to four decimals.
package technical

import "math"

// round4 rounds an indicator value to four decimals.
func round4(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := math.Round(v*10000) / 10000
	return &r
}

// sma returns the simple moving average of the last window values, or nil
// when fewer than window values exist.
func sma(values []float64, window int) *float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return round4(sum / float64(window))
}

// ema returns the latest exponential moving average over a span, seeded with
// the first value, or nil when fewer than span values exist.
func ema(values []float64, span int) *float64 {
	series := emaSeries(values, span)
	if series == nil {
		return nil
	}
	return round4(series[len(series)-1])
}

// emaSeries computes the full EMA series with multiplier 2/(span+1), seeded
// at the first value. Returns nil when fewer than span values exist.
func emaSeries(values []float64, span int) []float64 {
	if span <= 0 || len(values) < span {
		return nil
	}
	k := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// wilderSeries applies Wilder smoothing (alpha = 1/length) across the values,
// seeded at the first value.
func wilderSeries(values []float64, length int) []float64 {
	if length <= 0 || len(values) == 0 {
		return nil
	}
	alpha := 1.0 / float64(length)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}
