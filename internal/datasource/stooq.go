package datasource

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/finfetch/internal/infra"
	"github.com/seenimoa/finfetch/pkg/models"
	"github.com/seenimoa/finfetch/pkg/utils"
)

const stooqCSVURL = "https://stooq.com/q/d/l/"

// Stooq fetches daily price history as CSV. It is keyless and serves NSE
// listings only, at daily resolution regardless of the requested interval
// (which must still be daily or slower to qualify).
type Stooq struct {
	opts infra.HTTPOptions
}

// NewStooq builds a Stooq provider with the given HTTP tuning.
func NewStooq(opts infra.HTTPOptions) *Stooq {
	return &Stooq{opts: opts}
}

// Fetch retrieves daily OHLCV bars for the request period.
func (s *Stooq) Fetch(ctx context.Context, req Request) (models.Series, error) {
	if !dailyOrSlower(req.Interval) {
		return nil, ErrUnsupportedInterval
	}

	now := time.Now().UTC()
	q := url.Values{}
	q.Set("s", utils.StooqSymbol(req.Base))
	q.Set("d1", req.PeriodStart(now).Format("20060102"))
	q.Set("d2", now.Format("20060102"))
	q.Set("i", "d")
	u := stooqCSVURL + "?" + q.Encode()

	body, err := infra.GetWithRetry(ctx, u, "stooq", s.opts)
	if err != nil {
		return nil, err
	}

	// Stooq answers 200 with a short message body for unknown symbols.
	if len(body) < 30 || strings.Contains(strings.ToLower(string(body)), "no data") {
		return nil, ErrNoData
	}

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("stooq: parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoData
	}

	header := records[0]
	dateIdx := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), "date") {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("stooq: csv missing date column: %v", header)
	}

	raw := RawTable{}
	for i, col := range header {
		if i != dateIdx {
			raw.Columns = append(raw.Columns, col)
		}
	}
	for _, rec := range records[1:] {
		if dateIdx >= len(rec) {
			continue
		}
		d, err := time.Parse("2006-01-02", strings.TrimSpace(rec[dateIdx]))
		if err != nil {
			continue
		}
		row := RawRow{Date: d}
		for i, cell := range rec {
			if i != dateIdx {
				row.Cells = append(row.Cells, cell)
			}
		}
		raw.Rows = append(raw.Rows, row)
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
