package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/seenimoa/finfetch/internal/infra"
	"github.com/seenimoa/finfetch/pkg/models"
	"github.com/seenimoa/finfetch/pkg/utils"
)

const twelveDataURL = "https://api.twelvedata.com/time_series"

// twelveDataIntervals maps our interval tokens to Twelve Data's.
var twelveDataIntervals = map[string]string{
	"1m":  "1min",
	"5m":  "5min",
	"15m": "15min",
	"30m": "30min",
	"1h":  "1h",
	"1d":  "1day",
	"1wk": "1week",
	"1mo": "1month",
}

// twelveDataBars maps a period token to a requested output size at daily
// resolution. The API caps free-plan responses at 5000 rows.
var twelveDataBars = map[string]int{
	"1d":  2,
	"5d":  7,
	"1mo": 25,
	"3mo": 70,
	"6mo": 135,
	"1y":  260,
	"2y":  520,
	"5y":  1300,
	"10y": 2600,
	"max": 5000,
}

// TwelveData fetches price history from the Twelve Data REST API. Requires an
// API key; without one the provider is skipped by the chain.
type TwelveData struct {
	apiKey string
	opts   infra.HTTPOptions
}

// NewTwelveData builds a Twelve Data provider.
func NewTwelveData(apiKey string, opts infra.HTTPOptions) *TwelveData {
	return &TwelveData{apiKey: apiKey, opts: opts}
}

// Eligible reports whether the provider can serve the request.
func (t *TwelveData) Eligible(req Request) error {
	if t.apiKey == "" {
		return ErrMissingAPIKey
	}
	if _, ok := twelveDataIntervals[req.Interval]; !ok {
		return ErrUnsupportedInterval
	}
	return nil
}

type twelveDataResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

// Fetch retrieves OHLCV bars for the request.
func (t *TwelveData) Fetch(ctx context.Context, req Request) (models.Series, error) {
	if err := t.Eligible(req); err != nil {
		return nil, err
	}

	size, ok := twelveDataBars[req.Period]
	if !ok {
		size = twelveDataBars["1y"]
	}

	q := url.Values{}
	q.Set("symbol", req.Base)
	q.Set("exchange", utils.TwelveDataExchange(req.Exchange))
	q.Set("interval", twelveDataIntervals[req.Interval])
	q.Set("outputsize", strconv.Itoa(size))
	q.Set("order", "ASC")
	q.Set("format", "JSON")
	q.Set("apikey", t.apiKey)
	u := twelveDataURL + "?" + q.Encode()

	body, err := infra.GetWithRetry(ctx, u, "twelve_data", t.opts)
	if err != nil {
		return nil, err
	}

	var resp twelveDataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("twelve_data: decode response: %w", err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("twelve_data: %s", resp.Message)
	}
	if len(resp.Values) == 0 {
		return nil, ErrNoData
	}

	raw := RawTable{Columns: []string{"open", "high", "low", "close", "volume"}}
	for _, v := range resp.Values {
		d, err := parseTwelveDataTime(v.Datetime)
		if err != nil {
			continue
		}
		raw.Rows = append(raw.Rows, RawRow{
			Date:  d,
			Cells: []string{v.Open, v.High, v.Low, v.Close, v.Volume},
		})
	}

	series, err := CleanTable(raw)
	if err != nil {
		return nil, err
	}
	if series.Empty() {
		return nil, ErrNoData
	}
	return series, nil
}

// parseTwelveDataTime accepts both the date-only and datetime forms the API
// returns depending on interval.
func parseTwelveDataTime(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return d, nil
	}
	return time.Parse("2006-01-02", s)
}
