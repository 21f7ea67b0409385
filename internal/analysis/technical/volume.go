package technical

import (
	"github.com/seenimoa/finfetch/pkg/models"
)

// Volume-versus-average classification thresholds.
const (
	volumeAboveAverageRatio = 1.5
	volumeAverageRatio      = 0.75
)

// deliveryNote explains why delivery percentage is always null.
const deliveryNote = "Requires NSE/BSE Bhavcopy — not available from current data providers"

// obv computes on-balance volume and its moving-average trend. The OBV value
// itself needs two bars; the trend label additionally needs smaLen OBV points.
func obv(closes, volumes []float64, smaLen int) models.OBVGroup {
	if len(closes) < 2 || len(volumes) != len(closes) {
		return models.OBVGroup{}
	}

	series := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			series[i] = series[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			series[i] = series[i-1] - volumes[i]
		default:
			series[i] = series[i-1]
		}
	}

	latest := series[len(series)-1]
	group := models.OBVGroup{OBV: round4(latest)}
	if avg := sma(series, smaLen); avg != nil {
		group.OBVSMA = avg
		trend := "falling"
		if latest >= *avg {
			trend = "rising"
		}
		group.Trend = &trend
	}
	return group
}

// volumeStats compares the latest volume to its rolling average. With too few
// bars for the average the numeric fields stay null and the trend reads
// "insufficient_data".
func volumeStats(volumes []float64, smaLen int) models.VolumeGroup {
	if len(volumes) == 0 {
		return models.VolumeGroup{}
	}

	latest := volumes[len(volumes)-1]
	group := models.VolumeGroup{Latest: round4(latest)}

	avg := sma(volumes, smaLen)
	if avg == nil || *avg == 0 {
		trend := "insufficient_data"
		group.Trend = &trend
		return group
	}

	ratio := latest / *avg
	group.SMA = avg
	group.Ratio = round4(ratio)

	trend := "below_average"
	switch {
	case ratio >= volumeAboveAverageRatio:
		trend = "above_average"
	case ratio >= volumeAverageRatio:
		trend = "average"
	}
	group.Trend = &trend
	return group
}

// delivery reports the delivery-percentage placeholder: always null with an
// explanatory note, since no integrated provider publishes Bhavcopy data.
func delivery() models.DeliveryGroup {
	note := deliveryNote
	return models.DeliveryGroup{DeliveryPct: nil, SourceNote: &note}
}
