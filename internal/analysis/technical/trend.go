package technical

import (
	"math"

	"github.com/seenimoa/finfetch/pkg/models"
)

// psarState is the per-bar output of the parabolic SAR recursion, exposed so
// the trend-flip behavior is testable bar by bar.
type psarState struct {
	sar  float64
	bull bool
	af   float64
}

// psarStates runs the SAR recursion over the whole series. Needs at least
// two bars. The acceleration factor grows by afStep on each new extreme and
// resets to afStart on the bar where the trend flips.
func psarStates(highs, lows []float64, afStart, afStep, afMax float64) []psarState {
	n := len(highs)
	if n < 2 || len(lows) != n {
		return nil
	}

	states := make([]psarState, n)
	bull := true
	af := afStart
	sar := lows[0]
	ep := highs[0]
	states[0] = psarState{sar: sar, bull: bull, af: af}

	for i := 1; i < n; i++ {
		sar = sar + af*(ep-sar)

		if bull {
			// SAR never rises above the prior two lows.
			if sar > lows[i-1] {
				sar = lows[i-1]
			}
			if i >= 2 && sar > lows[i-2] {
				sar = lows[i-2]
			}
			if lows[i] < sar {
				bull = false
				sar = ep
				ep = lows[i]
				af = afStart
			} else if highs[i] > ep {
				ep = highs[i]
				af = math.Min(af+afStep, afMax)
			}
		} else {
			if sar < highs[i-1] {
				sar = highs[i-1]
			}
			if i >= 2 && sar < highs[i-2] {
				sar = highs[i-2]
			}
			if highs[i] > sar {
				bull = true
				sar = ep
				ep = highs[i]
				af = afStart
			} else if lows[i] < ep {
				ep = lows[i]
				af = math.Min(af+afStep, afMax)
			}
		}

		states[i] = psarState{sar: sar, bull: bull, af: af}
	}
	return states
}

// psar computes the parabolic SAR group for the latest bar.
func psar(highs, lows []float64, afStart, afStep, afMax float64) models.PSARGroup {
	states := psarStates(highs, lows, afStart, afStep, afMax)
	if states == nil {
		return models.PSARGroup{}
	}
	last := states[len(states)-1]
	trend := "bearish"
	if last.bull {
		trend = "bullish"
	}
	return models.PSARGroup{PSAR: round4(last.sar), Trend: &trend}
}

// supertrend computes the SuperTrend band and direction. Needs period+1 bars.
// Band stickiness: a new band only replaces the previous one when it tightens
// toward price or price has crossed the previous band.
func supertrend(highs, lows, closes []float64, period int, multiplier float64) models.SuperTrendGroup {
	n := len(closes)
	if period <= 0 || n < period+1 {
		return models.SuperTrendGroup{}
	}

	tr := make([]float64, n-1)
	for i := 1; i < n; i++ {
		tr[i-1] = trueRange(highs[i], lows[i], closes[i-1])
	}
	atr := wilderSeries(tr, period)

	upper := make([]float64, n)
	lower := make([]float64, n)
	uptrend := make([]bool, n)
	uptrend[0] = true
	upper[0] = highs[0]
	lower[0] = lows[0]

	for i := 1; i < n; i++ {
		mid := (highs[i] + lows[i]) / 2
		band := multiplier * atr[i-1]
		basicUpper := mid + band
		basicLower := mid - band

		if basicUpper < upper[i-1] || closes[i-1] > upper[i-1] {
			upper[i] = basicUpper
		} else {
			upper[i] = upper[i-1]
		}
		if basicLower > lower[i-1] || closes[i-1] < lower[i-1] {
			lower[i] = basicLower
		} else {
			lower[i] = lower[i-1]
		}

		switch {
		case closes[i] > upper[i]:
			uptrend[i] = true
		case closes[i] < lower[i]:
			uptrend[i] = false
		default:
			uptrend[i] = uptrend[i-1]
		}
	}

	last := n - 1
	if uptrend[last] {
		trend := "bullish"
		return models.SuperTrendGroup{SuperTrend: round4(lower[last]), Trend: &trend}
	}
	trend := "bearish"
	return models.SuperTrendGroup{SuperTrend: round4(upper[last]), Trend: &trend}
}

// donchian computes the channel over the last length bars.
func donchian(highs, lows []float64, length int) models.DonchianGroup {
	upper, lower, ok := donchianBands(highs, lows, length, 0)
	if !ok {
		return models.DonchianGroup{}
	}
	return models.DonchianGroup{
		Upper:  round4(upper),
		Middle: round4((upper + lower) / 2),
		Lower:  round4(lower),
	}
}

// slopeDeadbandPct is the per-bar percentage change below which the channel
// midline counts as flat.
const slopeDeadbandPct = 0.05

// donchianSlope classifies the channel midline drift over the last slopeBars
// bars: "rising" or "falling" outside a ±0.05% per-bar deadband, "flat"
// inside it. Needs length+slopeBars bars.
func donchianSlope(highs, lows []float64, length, slopeBars int) models.DonchianSlopeGroup {
	if slopeBars <= 0 || len(highs) < length+slopeBars {
		return models.DonchianSlopeGroup{}
	}

	upperNow, lowerNow, ok := donchianBands(highs, lows, length, 0)
	if !ok {
		return models.DonchianSlopeGroup{}
	}
	upperThen, lowerThen, ok := donchianBands(highs, lows, length, slopeBars)
	if !ok {
		return models.DonchianSlopeGroup{}
	}

	midNow := (upperNow + lowerNow) / 2
	midThen := (upperThen + lowerThen) / 2
	slope := (midNow - midThen) / float64(slopeBars)

	var slopePct float64
	if midThen != 0 {
		slopePct = slope / midThen * 100
	}

	direction := "flat"
	switch {
	case slopePct > slopeDeadbandPct:
		direction = "rising"
	case slopePct < -slopeDeadbandPct:
		direction = "falling"
	}

	return models.DonchianSlopeGroup{
		Slope:     round4(slope),
		SlopePct:  round4(slopePct),
		Direction: &direction,
	}
}

// donchianBands returns the channel extremes over length bars ending `back`
// bars before the latest.
func donchianBands(highs, lows []float64, length, back int) (upper, lower float64, ok bool) {
	n := len(highs)
	if length <= 0 || n < length+back || len(lows) != n {
		return 0, 0, false
	}
	end := n - back
	start := end - length
	upper = highs[start]
	lower = lows[start]
	for i := start + 1; i < end; i++ {
		if highs[i] > upper {
			upper = highs[i]
		}
		if lows[i] < lower {
			lower = lows[i]
		}
	}
	return upper, lower, true
}
