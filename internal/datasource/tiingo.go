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

const tiingoDailyURL = "https://api.tiingo.com/tiingo/daily/"

// Tiingo fetches end-of-day price history from the Tiingo REST API. Requires
// an API key and serves daily-or-slower intervals only.
type Tiingo struct {
	apiKey string
	opts   infra.HTTPOptions
}

// NewTiingo builds a Tiingo provider.
func NewTiingo(apiKey string, opts infra.HTTPOptions) *Tiingo {
	return &Tiingo{apiKey: apiKey, opts: opts}
}

// Eligible reports whether the provider can serve the request.
func (t *Tiingo) Eligible(req Request) error {
	if t.apiKey == "" {
		return ErrMissingAPIKey
	}
	if !dailyOrSlower(req.Interval) {
		return ErrUnsupportedInterval
	}
	return nil
}

type tiingoBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Fetch retrieves daily OHLCV bars for the request period.
func (t *Tiingo) Fetch(ctx context.Context, req Request) (models.Series, error) {
	if err := t.Eligible(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	q := url.Values{}
	q.Set("startDate", req.PeriodStart(now).Format("2006-01-02"))
	q.Set("format", "json")
	u := tiingoDailyURL + utils.TiingoSymbol(req.Base) + "/prices?" + q.Encode()

	opts := t.opts
	headers := map[string]string{
		"Authorization": "Token " + t.apiKey,
		"Content-Type":  "application/json",
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	opts.Headers = headers

	body, err := infra.GetWithRetry(ctx, u, "tiingo", opts)
	if err != nil {
		return nil, err
	}

	var bars []tiingoBar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, fmt.Errorf("tiingo: decode response: %w", err)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	raw := RawTable{Columns: []string{"open", "high", "low", "close", "volume"}}
	for _, b := range bars {
		d, err := time.Parse(time.RFC3339, b.Date)
		if err != nil {
			if d, err = time.Parse("2006-01-02", b.Date); err != nil {
				continue
			}
		}
		raw.Rows = append(raw.Rows, RawRow{
			Date: d,
			Cells: []string{
				strconv.FormatFloat(b.Open, 'f', -1, 64),
				strconv.FormatFloat(b.High, 'f', -1, 64),
				strconv.FormatFloat(b.Low, 'f', -1, 64),
				strconv.FormatFloat(b.Close, 'f', -1, 64),
				strconv.FormatFloat(b.Volume, 'f', -1, 64),
			},
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
