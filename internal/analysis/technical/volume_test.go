package technical

import "testing"

func flatVolumes(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestVolumeTrendLabels(t *testing.T) {
	// The rolling average includes the latest bar, so the expected ratio
	// is latest / ((19*100 + latest) / 20).
	tests := []struct {
		name   string
		latest float64
		want   string
	}{
		{"spike is above average", 400, "above_average"}, // ratio ~3.48
		{"steady is average", 100, "average"},            // ratio 1.0
		{"dip is below average", 20, "below_average"},    // ratio ~0.21
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			volumes := append(flatVolumes(19, 100), tt.latest)
			g := volumeStats(volumes, 20)
			if g.Trend == nil {
				t.Fatal("expected a trend label")
			}
			if *g.Trend != tt.want {
				t.Errorf("trend = %q, want %q", *g.Trend, tt.want)
			}
			if g.Ratio == nil || g.SMA == nil {
				t.Error("ratio and average should be reported")
			}
		})
	}
}

func TestVolumeInsufficientData(t *testing.T) {
	g := volumeStats(flatVolumes(5, 100), 20)
	if g.Latest == nil {
		t.Error("latest volume is always reported")
	}
	if g.SMA != nil || g.Ratio != nil {
		t.Error("short series leaves the average and ratio null")
	}
	if g.Trend == nil || *g.Trend != "insufficient_data" {
		t.Errorf("trend = %v, want insufficient_data", g.Trend)
	}
}

func TestOBV(t *testing.T) {
	closes := []float64{100, 101, 100, 100, 102}
	volumes := []float64{10, 20, 30, 40, 50}
	g := obv(closes, volumes, 3)
	// +20 -30 +0 +50 = 40.
	if g.OBV == nil || *g.OBV != 40 {
		t.Errorf("obv = %v, want 40", g.OBV)
	}
	if g.OBVSMA == nil || g.Trend == nil {
		t.Fatal("expected OBV average and trend")
	}
	if *g.Trend != "rising" {
		t.Errorf("obv trend = %q, want rising", *g.Trend)
	}

	if short := obv(closes[:1], volumes[:1], 3); short.OBV != nil {
		t.Error("single bar cannot produce OBV")
	}
}

func TestDeliveryAlwaysNullWithNote(t *testing.T) {
	g := delivery()
	if g.DeliveryPct != nil {
		t.Error("delivery percentage must stay null")
	}
	if g.SourceNote == nil || *g.SourceNote == "" {
		t.Error("the null must carry an explanatory note")
	}
}
