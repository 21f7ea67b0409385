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

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// Yahoo fetches price history from the Yahoo Finance chart API. It serves both
// NSE (".NS") and BSE (".BO") listings depending on the exchange passed in.
type Yahoo struct {
	opts infra.HTTPOptions
}

// NewYahoo builds a Yahoo provider with the given HTTP tuning.
func NewYahoo(opts infra.HTTPOptions) *Yahoo {
	return &Yahoo{opts: opts}
}

// yahooChartResponse mirrors the chart API envelope. Quote columns may carry
// nulls, which decode to nil pointers and are dropped by the cleaner.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves OHLCV bars for the request on the given exchange.
func (y *Yahoo) Fetch(ctx context.Context, req Request, exchange string) (models.Series, error) {
	symbol := utils.YahooSymbol(req.Base, exchange)

	q := url.Values{}
	q.Set("range", req.Period)
	q.Set("interval", req.Interval)
	q.Set("includeAdjustedClose", "false")
	u := yahooChartURL + url.PathEscape(symbol) + "?" + q.Encode()

	body, err := infra.GetWithRetry(ctx, u, "yahoo", y.opts)
	if err != nil {
		return nil, err
	}

	var resp yahooChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("yahoo: decode chart response: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	if len(result.Timestamp) == 0 {
		return nil, ErrNoData
	}

	raw := RawTable{Columns: []string{"open", "high", "low", "close", "volume"}}
	for i, ts := range result.Timestamp {
		raw.Rows = append(raw.Rows, RawRow{
			Date: unix(ts),
			Cells: []string{
				ptrCell(at(quote.Open, i)),
				ptrCell(at(quote.High, i)),
				ptrCell(at(quote.Low, i)),
				ptrCell(at(quote.Close, i)),
				ptrCell(at(quote.Volume, i)),
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

func at(col []*float64, i int) *float64 {
	if i >= len(col) {
		return nil
	}
	return col[i]
}

func ptrCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func unix(ts int64) time.Time { return time.Unix(ts, 0).UTC() }
