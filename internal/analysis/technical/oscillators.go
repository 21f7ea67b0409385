package technical

import (
	"github.com/seenimoa/finfetch/pkg/models"
)

// rsi computes the RSI group. The base oscillator needs length+1 closes; the
// smoothed variants additionally need enough RSI points for their own
// windows, and each gate applies independently.
func rsi(closes []float64, length, smaLen, emaLen int) models.RSIGroup {
	series := rsiSeries(closes, length)
	if len(series) == 0 {
		return models.RSIGroup{}
	}

	group := models.RSIGroup{RSI: round4(series[len(series)-1])}
	group.RSISMA = sma(series, smaLen)
	if e := emaSeries(series, emaLen); e != nil {
		group.RSIEMA = round4(e[len(e)-1])
	}
	return group
}

// rsiSeries computes Wilder RSI values. Empty when closes are shorter than
// length+1.
func rsiSeries(closes []float64, length int) []float64 {
	if length <= 0 || len(closes) < length+1 {
		return nil
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	avgGain := wilderSeries(gains, length)
	avgLoss := wilderSeries(losses, length)

	// Values before a full lookback are warm-up; start at length-1.
	out := make([]float64, 0, len(gains)-length+1)
	for i := length - 1; i < len(gains); i++ {
		if avgLoss[i] == 0 {
			out = append(out, 100)
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out = append(out, 100-100/(1+rs))
	}
	return out
}

// adx computes the ADX group. Needs length+smoothing+1 bars: one for the
// first true range, length for directional smoothing, smoothing for the ADX
// average itself.
func adx(highs, lows, closes []float64, length, smoothing int) models.ADXGroup {
	minBars := length + smoothing + 1
	if length <= 0 || smoothing <= 0 || len(closes) < minBars {
		return models.ADXGroup{}
	}

	n := len(closes)
	tr := make([]float64, n-1)
	dmPlus := make([]float64, n-1)
	dmMinus := make([]float64, n-1)
	for i := 1; i < n; i++ {
		tr[i-1] = trueRange(highs[i], lows[i], closes[i-1])

		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]
		if upMove > downMove && upMove > 0 {
			dmPlus[i-1] = upMove
		}
		if downMove > upMove && downMove > 0 {
			dmMinus[i-1] = downMove
		}
	}

	atr := wilderSeries(tr, length)
	smPlus := wilderSeries(dmPlus, length)
	smMinus := wilderSeries(dmMinus, length)

	diPlus := make([]float64, len(tr))
	diMinus := make([]float64, len(tr))
	dx := make([]float64, len(tr))
	for i := range tr {
		if atr[i] == 0 {
			continue
		}
		diPlus[i] = 100 * smPlus[i] / atr[i]
		diMinus[i] = 100 * smMinus[i] / atr[i]
		if sum := diPlus[i] + diMinus[i]; sum != 0 {
			dx[i] = 100 * absFloat(diPlus[i]-diMinus[i]) / sum
		}
	}

	adxSeries := wilderSeries(dx[length-1:], smoothing)

	last := len(tr) - 1
	return models.ADXGroup{
		ADX:     round4(adxSeries[len(adxSeries)-1]),
		DIPlus:  round4(diPlus[last]),
		DIMinus: round4(diMinus[last]),
	}
}

func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if d := absFloat(high - prevClose); d > tr {
		tr = d
	}
	if d := absFloat(low - prevClose); d > tr {
		tr = d
	}
	return tr
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
