// Package aggregate assembles the full per-ticker bundle: fundamentals,
// the technical report, and recent news, fetched concurrently.
package aggregate

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/finfetch/internal/analysis/fundamental"
	"github.com/seenimoa/finfetch/internal/analysis/technical"
	"github.com/seenimoa/finfetch/internal/config"
	"github.com/seenimoa/finfetch/internal/datasource"
	"github.com/seenimoa/finfetch/internal/infra"
	"github.com/seenimoa/finfetch/internal/scraper"
	"github.com/seenimoa/finfetch/pkg/models"
	"github.com/seenimoa/finfetch/pkg/utils"
)

// Aggregator owns the wired-together services and produces stock bundles.
type Aggregator struct {
	Fundamentals *fundamental.Service
	Technical    *technical.Engine
	News         *datasource.News
}

// New wires the standard service graph from configuration: the Screener
// scraper as the primary statements source with Yahoo statements as
// fallback, the provider chain behind the technical engine, and the RSS
// news reader.
func New(cfg *config.Config) *Aggregator {
	opts := infra.DefaultHTTPOptions()
	if cfg.HTTP.MaxRetries > 0 {
		opts.MaxRetries = cfg.HTTP.MaxRetries
	}
	if cfg.HTTP.BackoffSec > 0 {
		opts.Backoff = time.Duration(cfg.HTTP.BackoffSec * float64(time.Second))
	}

	yahooFund := datasource.NewYahooFundamentals(opts)
	chart := datasource.NewYahoo(opts)

	screener := scraper.NewScreener(cfg.Scraper)
	screener.MonthlyCloses = func(ctx context.Context, base, exchange string) []float64 {
		series, err := chart.Fetch(ctx, datasource.Request{Base: base, Period: "10y", Interval: "1mo"}, exchange)
		if err != nil {
			return nil
		}
		return series.Closes()
	}

	return &Aggregator{
		Fundamentals: fundamental.NewService(screener, yahooFund),
		Technical:    technical.NewEngine(cfg),
		News:         datasource.NewNews(cfg.News.Limit, time.Duration(cfg.News.CacheTTLSec)*time.Second),
	}
}

// BundleOptions selects which parts of the bundle to fetch.
type BundleOptions struct {
	Fundamentals bool
	Technical    bool
	News         bool
	Period       string
	Interval     string
	ForceRefresh bool
}

// DefaultBundleOptions fetches everything at daily resolution over a year.
func DefaultBundleOptions() BundleOptions {
	return BundleOptions{
		Fundamentals: true,
		Technical:    true,
		News:         true,
		Period:       "1y",
		Interval:     "1d",
	}
}

// FetchBundle gathers the selected parts concurrently. Individual part
// failures degrade the bundle rather than failing it; the error return is
// reserved for context cancellation.
func (a *Aggregator) FetchBundle(ctx context.Context, ticker string, opts BundleOptions) (*models.StockBundle, error) {
	base, exchange := utils.NormalizeTicker(ticker)
	bundle := &models.StockBundle{Ticker: base}

	g, gctx := errgroup.WithContext(ctx)

	if opts.Fundamentals && a.Fundamentals != nil {
		g.Go(func() error {
			bundle.Fundamentals = a.Fundamentals.Fetch(gctx, ticker, exchange, opts.ForceRefresh)
			return nil
		})
	}
	if opts.Technical && a.Technical != nil {
		g.Go(func() error {
			bundle.Technical = a.Technical.Analyze(gctx, ticker, opts.Period, opts.Interval)
			return nil
		})
	}
	if opts.News && a.News != nil {
		g.Go(func() error {
			bundle.News = a.News.FetchStockNews(gctx, base, "")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	bundle.FetchedAt = time.Now()
	return bundle, nil
}
