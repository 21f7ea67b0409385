package datasource

import (
	"context"
	"log"
	"time"

	"github.com/seenimoa/finfetch/internal/config"
	"github.com/seenimoa/finfetch/internal/infra"
	"github.com/seenimoa/finfetch/pkg/models"
)

// Provider is one entry in the fallback chain: a name for provenance, an
// optional pre-flight eligibility check, and the fetch itself. Keeping the
// chain as a table of these makes the ordering data, not control flow.
type Provider struct {
	Name     string
	Eligible func(Request) error
	Fetch    func(context.Context, Request) (models.Series, error)
}

// Chain walks an ordered provider table until one returns data. Each provider
// gets exactly one attempt (retries happen inside the HTTP layer); between
// attempts the chain pauses briefly to avoid hammering the next source.
type Chain struct {
	providers []Provider
	delay     time.Duration
	sleep     func(time.Duration)
}

// NewChain builds a chain over an explicit provider table.
func NewChain(providers []Provider, delay time.Duration) *Chain {
	return &Chain{providers: providers, delay: delay, sleep: time.Sleep}
}

// NewPriceChain builds the standard five-provider chain:
// Yahoo NSE, Stooq, Twelve Data, Tiingo, Yahoo BSE. The first Yahoo entry
// honors the exchange detected from the ticker suffix (or the configured
// preference); the final entry retries Yahoo explicitly on BSE.
func NewPriceChain(cfg *config.Config) *Chain {
	opts := httpOptionsFromConfig(cfg)
	yahoo := NewYahoo(opts)
	stooq := NewStooq(opts)
	twelve := NewTwelveData(cfg.Providers.TwelveDataKey, opts)
	tiingo := NewTiingo(cfg.Providers.TiingoKey, opts)

	providers := []Provider{
		{
			Name: "yahoo_nse",
			Fetch: func(ctx context.Context, req Request) (models.Series, error) {
				exchange := req.Exchange
				if exchange == "" {
					exchange = cfg.Providers.PreferredExchange
				}
				return yahoo.Fetch(ctx, req, exchange)
			},
		},
		{
			Name: "stooq",
			Eligible: func(req Request) error {
				if !dailyOrSlower(req.Interval) {
					return ErrUnsupportedInterval
				}
				return nil
			},
			Fetch: func(ctx context.Context, req Request) (models.Series, error) {
				return stooq.Fetch(ctx, req)
			},
		},
		{
			Name:     "twelve_data",
			Eligible: twelve.Eligible,
			Fetch: func(ctx context.Context, req Request) (models.Series, error) {
				return twelve.Fetch(ctx, req)
			},
		},
		{
			Name:     "tiingo",
			Eligible: tiingo.Eligible,
			Fetch: func(ctx context.Context, req Request) (models.Series, error) {
				return tiingo.Fetch(ctx, req)
			},
		},
		{
			Name: "yahoo_bse",
			Fetch: func(ctx context.Context, req Request) (models.Series, error) {
				return yahoo.Fetch(ctx, req, "BSE")
			},
		},
	}

	return NewChain(providers, cfg.Providers.RetryDelay())
}

// Fetch walks the chain in order and returns the first non-empty series along
// with the name of the provider that produced it. When every provider fails
// the series is nil and the source is "none". Fetch never panics and never
// returns an error: exhaustion is an expected outcome, reported in-band.
func (c *Chain) Fetch(ctx context.Context, req Request) (models.Series, string) {
	for i, p := range c.providers {
		if p.Eligible != nil {
			if err := p.Eligible(req); err != nil {
				log.Printf("[chain] %s skipped: %v", p.Name, err)
				continue
			}
		}

		series, err := p.Fetch(ctx, req)
		if err == nil && !series.Empty() {
			log.Printf("[chain] %s returned %d bars for %s", p.Name, series.Len(), req.Base)
			return series, p.Name
		}
		if err != nil {
			log.Printf("[chain] %s failed for %s: %v", p.Name, req.Base, err)
		} else {
			log.Printf("[chain] %s returned no bars for %s", p.Name, req.Base)
		}

		if ctx.Err() != nil {
			break
		}
		if i < len(c.providers)-1 && c.delay > 0 {
			c.sleep(c.delay)
		}
	}
	return nil, "none"
}

// httpOptionsFromConfig translates config timeouts into HTTP options.
func httpOptionsFromConfig(cfg *config.Config) infra.HTTPOptions {
	opts := infra.DefaultHTTPOptions()
	if cfg.HTTP.ConnectTimeoutSec > 0 {
		opts.ConnectTimeout = time.Duration(cfg.HTTP.ConnectTimeoutSec * float64(time.Second))
	}
	if cfg.HTTP.ReadTimeoutSec > 0 {
		opts.ReadTimeout = time.Duration(cfg.HTTP.ReadTimeoutSec * float64(time.Second))
	}
	if cfg.HTTP.MaxRetries > 0 {
		opts.MaxRetries = cfg.HTTP.MaxRetries
	}
	if cfg.HTTP.BackoffSec > 0 {
		opts.Backoff = time.Duration(cfg.HTTP.BackoffSec * float64(time.Second))
	}
	return opts
}
