package fundamental

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func series(vals ...*float64) *LineSeries {
	return &LineSeries{Values: vals}
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name  string
		s     *LineSeries
		years int
		want  float64
		isNil bool
	}{
		{"doubling over one year", series(ptr(200), ptr(100)), 1, 100, false},
		{"five year horizon", series(ptr(200), ptr(180), ptr(160), ptr(140), ptr(120), ptr(100)), 5, 14.87, false},
		{"horizon shortens to available data", series(ptr(121), ptr(110), ptr(100)), 5, 10, false},
		{"nulls dropped before spanning", series(ptr(121), nil, ptr(110), ptr(100)), 2, 10, false},
		{"single value", series(ptr(100)), 3, 0, true},
		{"nil series", nil, 3, 0, true},
		{"negative start has no growth rate", series(ptr(50), ptr(-10)), 1, 0, true},
		{"zero start has no growth rate", series(ptr(50), ptr(0)), 1, 0, true},
		{"negative end has no growth rate", series(ptr(-50), ptr(100)), 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CAGR(tt.s, tt.years)
			if tt.isNil {
				if got != nil {
					t.Fatalf("CAGR = %v, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("CAGR = nil, want %v", tt.want)
			}
			if math.Abs(*got-tt.want) > 0.01 {
				t.Errorf("CAGR = %v, want %v", *got, tt.want)
			}
		})
	}
}

func TestYoYGrowth(t *testing.T) {
	if got := YoYGrowth(series(ptr(150), ptr(120)), 0, 1); got == nil || *got != 25 {
		t.Errorf("growth = %v, want 25", got)
	}
	// Negative base: magnitude denominator keeps the direction meaningful.
	if got := YoYGrowth(series(ptr(10), ptr(-10)), 0, 1); got == nil || *got != 200 {
		t.Errorf("negative base growth = %v, want 200", got)
	}
	if got := YoYGrowth(series(ptr(10), ptr(0)), 0, 1); got != nil {
		t.Errorf("zero base growth = %v, want nil", *got)
	}
	if got := YoYGrowth(series(ptr(10)), 0, 1); got != nil {
		t.Errorf("insufficient data growth = %v, want nil", *got)
	}
	// Nulls drop out before indexing.
	if got := YoYGrowth(series(ptr(150), nil, ptr(120)), 0, 1); got == nil || *got != 25 {
		t.Errorf("null-gapped growth = %v, want 25", got)
	}
}

func TestAverageAndSum(t *testing.T) {
	s := series(ptr(10), ptr(20), nil, ptr(30), ptr(40))
	if got := Average(s, 3); got == nil || *got != 20 {
		t.Errorf("Average = %v, want 20", got)
	}
	if got := Sum(s, 3); got == nil || *got != 60 {
		t.Errorf("Sum = %v, want 60", got)
	}
	if got := Average(series(), 3); got != nil {
		t.Errorf("Average of empty = %v, want nil", *got)
	}
	if got := Average(nil, 3); got != nil {
		t.Errorf("Average of nil = %v, want nil", *got)
	}
}

func TestConsistencyScoreStrongTrend(t *testing.T) {
	// Smooth exponential growth: log closes are perfectly linear.
	closes := make([]float64, 36)
	for i := range closes {
		closes[i] = 100 * math.Exp(0.02*float64(i))
	}
	r2, trend := ConsistencyScore(closes)
	if r2 == nil || trend == nil {
		t.Fatal("expected a score for 36 monthly closes")
	}
	if *r2 < 0.99 {
		t.Errorf("r2 = %v, want near 1", *r2)
	}
	if *trend != "Strong" {
		t.Errorf("trend = %q, want Strong", *trend)
	}
}

func TestConsistencyScoreVolatile(t *testing.T) {
	closes := make([]float64, 36)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 200
		}
	}
	r2, trend := ConsistencyScore(closes)
	if r2 == nil || trend == nil {
		t.Fatal("expected a score")
	}
	if *trend != "Volatile/Cyclical" {
		t.Errorf("trend = %q, want Volatile/Cyclical", *trend)
	}
}

func TestConsistencyScoreNeedsTwoYears(t *testing.T) {
	closes := make([]float64, 24)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	if r2, trend := ConsistencyScore(closes); r2 != nil || trend != nil {
		t.Error("24 closes should not produce a score")
	}
}

func TestConsistencyScoreDropsNonPositiveCloses(t *testing.T) {
	closes := []float64{0, -5}
	for i := 0; i < 30; i++ {
		closes = append(closes, 100*math.Exp(0.02*float64(i)))
	}
	r2, _ := ConsistencyScore(closes)
	if r2 == nil {
		t.Fatal("non-positive closes should be dropped, not fatal")
	}
	if *r2 < 0.99 {
		t.Errorf("r2 = %v, want near 1", *r2)
	}
}
