package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seenimoa/finfetch/pkg/models"
)

func onebar() models.Series {
	return models.Series{{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 1, Close: 1.5, Volume: 10}}
}

func failing(name string, calls *[]string) Provider {
	return Provider{
		Name: name,
		Fetch: func(context.Context, Request) (models.Series, error) {
			*calls = append(*calls, name)
			return nil, errors.New("boom")
		},
	}
}

func succeeding(name string, calls *[]string) Provider {
	return Provider{
		Name: name,
		Fetch: func(context.Context, Request) (models.Series, error) {
			*calls = append(*calls, name)
			return onebar(), nil
		},
	}
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	var calls []string
	chain := NewChain([]Provider{
		failing("p1", &calls),
		failing("p2", &calls),
		failing("p3", &calls),
		succeeding("p4", &calls),
		succeeding("p5", &calls),
	}, 0)

	series, source := chain.Fetch(context.Background(), Request{Base: "TEST", Period: "1y", Interval: "1d"})
	if series.Empty() {
		t.Fatal("expected data from p4")
	}
	if source != "p4" {
		t.Errorf("source = %q, want p4", source)
	}
	want := []string{"p1", "p2", "p3", "p4"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v (p5 must never be attempted)", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestChainExhaustionReturnsNone(t *testing.T) {
	var calls []string
	chain := NewChain([]Provider{
		failing("p1", &calls),
		failing("p2", &calls),
	}, 0)

	series, source := chain.Fetch(context.Background(), Request{Base: "TEST"})
	if series != nil {
		t.Errorf("series = %v, want nil", series)
	}
	if source != "none" {
		t.Errorf("source = %q, want none", source)
	}
}

func TestChainSkipsIneligibleWithoutFetching(t *testing.T) {
	var calls []string
	chain := NewChain([]Provider{
		{
			Name:     "keyless",
			Eligible: func(Request) error { return ErrMissingAPIKey },
			Fetch: func(context.Context, Request) (models.Series, error) {
				t.Fatal("ineligible provider must not be fetched")
				return nil, nil
			},
		},
		succeeding("fallback", &calls),
	}, 0)

	_, source := chain.Fetch(context.Background(), Request{Base: "TEST"})
	if source != "fallback" {
		t.Errorf("source = %q, want fallback", source)
	}
}

func TestChainSleepsBetweenAttempts(t *testing.T) {
	var calls []string
	var slept []time.Duration
	chain := NewChain([]Provider{
		failing("p1", &calls),
		succeeding("p2", &calls),
	}, 2*time.Second)
	chain.sleep = func(d time.Duration) { slept = append(slept, d) }

	chain.Fetch(context.Background(), Request{Base: "TEST"})
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Errorf("slept = %v, want one 2s pause", slept)
	}
}

func TestChainEmptySeriesCountsAsFailure(t *testing.T) {
	var calls []string
	chain := NewChain([]Provider{
		{
			Name: "empty",
			Fetch: func(context.Context, Request) (models.Series, error) {
				return models.Series{}, nil
			},
		},
		succeeding("p2", &calls),
	}, 0)

	_, source := chain.Fetch(context.Background(), Request{Base: "TEST"})
	if source != "p2" {
		t.Errorf("source = %q, want p2", source)
	}
}
