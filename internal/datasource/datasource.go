// Package datasource fetches OHLCV price history for Indian equities from a
// chain of providers (Yahoo Finance, Stooq, Twelve Data, Tiingo), normalizes
// every provider's output through a single cleaning pipeline, and exposes the
// fallback controller that walks the chain in order. It also carries the news
// feed reader and the Yahoo statements-based fundamentals source.
package datasource

import (
	"errors"
	"time"
)

// Sentinel errors shared by all providers.
var (
	// ErrNoData means the provider responded but returned an empty or
	// unusable dataset for the requested symbol.
	ErrNoData = errors.New("no price data returned")

	// ErrMissingAPIKey disqualifies a paid provider whose key is not
	// configured. The chain skips the provider without a network call.
	ErrMissingAPIKey = errors.New("api key not configured")

	// ErrUnsupportedInterval disqualifies a provider that cannot serve the
	// requested bar interval (e.g. intraday from a daily-only source).
	ErrUnsupportedInterval = errors.New("interval not supported")
)

// Request describes one price-history fetch.
type Request struct {
	Base     string // normalized symbol, no exchange suffix
	Exchange string // "NSE" or "BSE"
	Period   string // "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "max"
	Interval string // "1m", "5m", "15m", "1h", "1d", "1wk", "1mo"
}

// periodDays maps a period token to an approximate calendar day span, used by
// providers that take explicit start dates instead of range tokens.
var periodDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 31,
	"3mo": 93,
	"6mo": 186,
	"1y":  366,
	"2y":  732,
	"5y":  1830,
	"10y": 3660,
	"max": 7320,
}

// PeriodStart returns the start date implied by the request period,
// anchored at now. Unknown periods default to one year.
func (r Request) PeriodStart(now time.Time) time.Time {
	days, ok := periodDays[r.Period]
	if !ok {
		days = periodDays["1y"]
	}
	return now.AddDate(0, 0, -days)
}

// dailyOrSlower reports whether the interval is daily, weekly, or monthly.
func dailyOrSlower(interval string) bool {
	switch interval {
	case "1d", "1wk", "1mo":
		return true
	}
	return false
}
