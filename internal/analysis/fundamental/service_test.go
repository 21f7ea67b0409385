package fundamental

import (
	"context"
	"errors"
	"testing"

	"github.com/seenimoa/finfetch/pkg/models"
)

// fakeSource returns a canned metric set and records whether it was called.
type fakeSource struct {
	name    string
	metrics models.Metrics
	err     error
	called  bool
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) GetFinanceValues(ctx context.Context, ticker, exchange string, forceRefresh bool) (models.Metrics, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

// metricsWithMissing builds a full metric set with exactly n missing values.
func metricsWithMissing(n int, fill float64) models.Metrics {
	m := models.NewMetrics()
	remaining := len(models.MetricKeys) - n
	for _, k := range models.MetricKeys {
		if remaining == 0 {
			break
		}
		m[k] = models.Number(fill)
		remaining--
	}
	return m
}

func TestFallbackTriggersAboveThreshold(t *testing.T) {
	primary := &fakeSource{name: "primary", metrics: metricsWithMissing(FallbackThreshold+1, 1)}
	fallback := &fakeSource{name: "fallback", metrics: metricsWithMissing(0, 2)}

	got := NewService(primary, fallback).Fetch(context.Background(), "TEST", "", false)
	if !fallback.called {
		t.Fatalf("%d missing values must consult the fallback", FallbackThreshold+1)
	}
	if got.CountNA() != 0 {
		t.Errorf("merged CountNA = %d, want 0", got.CountNA())
	}
}

func TestFallbackNotConsultedAtThreshold(t *testing.T) {
	primary := &fakeSource{name: "primary", metrics: metricsWithMissing(FallbackThreshold, 1)}
	fallback := &fakeSource{name: "fallback", metrics: metricsWithMissing(0, 2)}

	got := NewService(primary, fallback).Fetch(context.Background(), "TEST", "", false)
	if fallback.called {
		t.Fatalf("exactly %d missing values must not consult the fallback", FallbackThreshold)
	}
	if got.CountNA() != FallbackThreshold {
		t.Errorf("CountNA = %d, want %d", got.CountNA(), FallbackThreshold)
	}
}

func TestMergePrefersPrimaryValues(t *testing.T) {
	primaryMetrics := models.NewMetrics()
	primaryMetrics["roe"] = models.Number(18)
	fallbackMetrics := models.NewMetrics()
	fallbackMetrics["roe"] = models.Number(99)
	fallbackMetrics["roce"] = models.Number(25)

	primary := &fakeSource{name: "primary", metrics: primaryMetrics}
	fallback := &fakeSource{name: "fallback", metrics: fallbackMetrics}

	got := NewService(primary, fallback).Fetch(context.Background(), "TEST", "", false)
	if v, _ := got["roe"].Float(); v != 18 {
		t.Errorf("roe = %v, want primary value 18", v)
	}
	if v, _ := got["roce"].Float(); v != 25 {
		t.Errorf("roce = %v, want fallback value 25", v)
	}
}

func TestPrimaryFailureStillProducesFullSchema(t *testing.T) {
	primary := &fakeSource{name: "primary", err: errors.New("blocked")}
	fallback := &fakeSource{name: "fallback", err: errors.New("down")}

	got := NewService(primary, fallback).Fetch(context.Background(), "TEST", "", false)
	if len(got) != len(models.MetricKeys) {
		t.Fatalf("schema has %d keys, want %d", len(got), len(models.MetricKeys))
	}
	if got.CountNA() != len(models.MetricKeys) {
		t.Errorf("all values should be missing, CountNA = %d", got.CountNA())
	}
}
