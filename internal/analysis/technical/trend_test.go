package technical

import "testing"

func TestPSARResetsAccelerationOnFlip(t *testing.T) {
	// Five bars of new highs grow the acceleration factor, then a crash
	// through the SAR flips the trend.
	highs := []float64{10, 11, 12, 13, 14, 15, 9}
	lows := []float64{9, 10, 11, 12, 13, 14, 5}

	states := psarStates(highs, lows, 0.002, 0.002, 0.5)
	if states == nil {
		t.Fatal("expected states")
	}

	preFlip := states[5]
	if !preFlip.bull {
		t.Fatal("trend should still be bullish before the crash")
	}
	if preFlip.af <= 0.002 {
		t.Fatalf("af = %v, should have grown past the floor", preFlip.af)
	}

	flip := states[6]
	if flip.bull {
		t.Fatal("crash bar should flip the trend bearish")
	}
	if flip.af != 0.002 {
		t.Errorf("af = %v, must reset to the floor exactly at the flip bar", flip.af)
	}
	// On the flip bar the SAR jumps to the prior extreme point.
	if flip.sar != 15 {
		t.Errorf("sar = %v, want prior extreme 15", flip.sar)
	}
}

func TestPSARGroupOutput(t *testing.T) {
	highs := []float64{10, 11, 12, 13}
	lows := []float64{9, 10, 11, 12}
	g := psar(highs, lows, 0.002, 0.002, 0.5)
	if g.PSAR == nil || g.Trend == nil {
		t.Fatal("expected psar output")
	}
	if *g.Trend != "bullish" {
		t.Errorf("trend = %q, want bullish", *g.Trend)
	}
	if g2 := psar([]float64{10}, []float64{9}, 0.002, 0.002, 0.5); g2.PSAR != nil {
		t.Error("single bar should not produce a SAR")
	}
}

func TestSuperTrendDirection(t *testing.T) {
	n := 30
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)*2
		highs[i] = base + 1
		lows[i] = base - 1
		closes[i] = base
	}

	g := supertrend(highs, lows, closes, 7, 3)
	if g.SuperTrend == nil || g.Trend == nil {
		t.Fatal("expected supertrend output")
	}
	if *g.Trend != "bullish" {
		t.Errorf("steady uptrend classified %q", *g.Trend)
	}
	if *g.SuperTrend >= closes[n-1] {
		t.Errorf("bullish band %v should sit below price %v", *g.SuperTrend, closes[n-1])
	}

	// Too few bars: both fields stay null.
	g = supertrend(highs[:5], lows[:5], closes[:5], 7, 3)
	if g.SuperTrend != nil || g.Trend != nil {
		t.Error("short series should leave supertrend null")
	}
}

func TestDonchianBands(t *testing.T) {
	n := 25
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 110 + float64(i%5)
		lows[i] = 90 - float64(i%5)
	}

	g := donchian(highs, lows, 20)
	if g.Upper == nil || *g.Upper != 114 {
		t.Errorf("upper = %v, want 114", g.Upper)
	}
	if g.Lower == nil || *g.Lower != 86 {
		t.Errorf("lower = %v, want 86", g.Lower)
	}
	if g.Middle == nil || *g.Middle != 100 {
		t.Errorf("middle = %v, want 100", g.Middle)
	}

	if short := donchian(highs[:10], lows[:10], 20); short.Upper != nil {
		t.Error("short series should leave the channel null")
	}
}

func TestDonchianSlopeDeadband(t *testing.T) {
	n := 30
	flatHighs := make([]float64, n)
	flatLows := make([]float64, n)
	for i := 0; i < n; i++ {
		flatHighs[i] = 101
		flatLows[i] = 99
	}
	g := donchianSlope(flatHighs, flatLows, 20, 5)
	if g.Direction == nil || *g.Direction != "flat" {
		t.Errorf("flat channel classified %v", g.Direction)
	}

	rising := make([]float64, n)
	for i := 0; i < n; i++ {
		rising[i] = 100 + float64(i)*2
	}
	g = donchianSlope(rising, rising, 20, 5)
	if g.Direction == nil || *g.Direction != "rising" {
		t.Errorf("rising channel classified %v", g.Direction)
	}
	if g.SlopePct == nil || *g.SlopePct <= slopeDeadbandPct {
		t.Errorf("slope_pct = %v, should exceed the deadband", g.SlopePct)
	}

	falling := make([]float64, n)
	for i := 0; i < n; i++ {
		falling[i] = 200 - float64(i)*2
	}
	g = donchianSlope(falling, falling, 20, 5)
	if g.Direction == nil || *g.Direction != "falling" {
		t.Errorf("falling channel classified %v", g.Direction)
	}

	if short := donchianSlope(rising[:22], rising[:22], 20, 5); short.Direction != nil {
		t.Error("needs length+slopeBars bars")
	}
}
