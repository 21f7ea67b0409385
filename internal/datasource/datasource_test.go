package datasource

import (
	"errors"
	"testing"
	"time"

	"github.com/seenimoa/finfetch/internal/infra"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	start := Request{Period: "1y"}.PeriodStart(now)
	if now.Sub(start) < 365*24*time.Hour {
		t.Errorf("1y start %v too recent", start)
	}

	// Unknown periods default to a year.
	unknown := Request{Period: "whenever"}.PeriodStart(now)
	if !unknown.Equal(start) {
		t.Errorf("unknown period start = %v, want the 1y default %v", unknown, start)
	}
}

func TestDailyOrSlower(t *testing.T) {
	for _, interval := range []string{"1d", "1wk", "1mo"} {
		if !dailyOrSlower(interval) {
			t.Errorf("%s should qualify", interval)
		}
	}
	for _, interval := range []string{"1m", "5m", "15m", "1h"} {
		if dailyOrSlower(interval) {
			t.Errorf("%s should not qualify", interval)
		}
	}
}

func TestTwelveDataEligibility(t *testing.T) {
	opts := infra.DefaultHTTPOptions()

	keyless := NewTwelveData("", opts)
	if err := keyless.Eligible(Request{Interval: "1d"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("got %v, want ErrMissingAPIKey", err)
	}

	keyed := NewTwelveData("key", opts)
	if err := keyed.Eligible(Request{Interval: "1d"}); err != nil {
		t.Errorf("daily with key should qualify: %v", err)
	}
	if err := keyed.Eligible(Request{Interval: "3h"}); !errors.Is(err, ErrUnsupportedInterval) {
		t.Errorf("got %v, want ErrUnsupportedInterval", err)
	}
}

func TestTiingoEligibility(t *testing.T) {
	opts := infra.DefaultHTTPOptions()

	if err := NewTiingo("", opts).Eligible(Request{Interval: "1d"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("got %v, want ErrMissingAPIKey", err)
	}
	tiingo := NewTiingo("key", opts)
	if err := tiingo.Eligible(Request{Interval: "5m"}); !errors.Is(err, ErrUnsupportedInterval) {
		t.Errorf("intraday should be unsupported, got %v", err)
	}
	if err := tiingo.Eligible(Request{Interval: "1wk"}); err != nil {
		t.Errorf("weekly should qualify: %v", err)
	}
}

func TestParseTwelveDataTime(t *testing.T) {
	if _, err := parseTwelveDataTime("2025-06-13"); err != nil {
		t.Error(err)
	}
	if _, err := parseTwelveDataTime("2025-06-13 15:25:00"); err != nil {
		t.Error(err)
	}
	if _, err := parseTwelveDataTime("13/06/2025"); err == nil {
		t.Error("unknown layout should fail")
	}
}
