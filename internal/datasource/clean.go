package datasource

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/seenimoa/finfetch/pkg/models"
	"github.com/seenimoa/finfetch/pkg/utils"
)

// RawTable is the provider-neutral shape handed to CleanTable: named columns
// over rows of textual cells. Providers that receive typed values format them
// into cells so every source passes through the same coercion rules.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// RawRow is one observation: a timestamp plus one cell per column.
type RawRow struct {
	Date  time.Time
	Cells []string
}

// SchemaError reports a raw table missing one of the required OHLC columns.
type SchemaError struct {
	Missing string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("price table missing %q column (have %v)", e.Missing, e.Columns)
}

// columnSynonyms canonicalizes provider column names after lower-casing.
var columnSynonyms = map[string]string{
	"adj close": "close",
	"adjclose":  "close",
	"adj_close": "close",
	"adjopen":   "open",
	"adjhigh":   "high",
	"adjlow":    "low",
	"adjvolume": "volume",
	"vol":       "volume",
	"turnover":  "volume",
	"price":     "close",
	"last":      "close",
}

// CleanTable normalizes a raw provider table into a Series. All providers
// funnel through here so the invariants hold regardless of source:
//
//   - column names are lower-cased, trimmed, and mapped through synonyms;
//     a synonym never overrides a column already present under the
//     canonical name
//   - open, high, low, close are required; their absence is a *SchemaError
//   - a missing volume column (or unparseable volume cell) coerces to 0
//   - rows with any unparseable OHLC cell are dropped
//   - rows with close <= 0 are dropped
//   - dates are truncated to midnight UTC; rows are sorted ascending and
//     duplicate dates keep the last occurrence in input order
//
// An input with zero surviving rows yields an empty Series and no error.
func CleanTable(raw RawTable) (models.Series, error) {
	idx := map[string]int{}
	for i, col := range raw.Columns {
		name := strings.ToLower(strings.TrimSpace(col))
		if canon, ok := columnSynonyms[name]; ok {
			if _, taken := idx[canon]; taken {
				continue
			}
			name = canon
		}
		if _, taken := idx[name]; !taken {
			idx[name] = i
		}
	}

	for _, required := range []string{"open", "high", "low", "close"} {
		if _, ok := idx[required]; !ok {
			return nil, &SchemaError{Missing: required, Columns: raw.Columns}
		}
	}
	volIdx, hasVol := idx["volume"]

	cell := func(row RawRow, i int) *float64 {
		if i >= len(row.Cells) {
			return nil
		}
		return utils.ParseNumber(row.Cells[i])
	}

	byDate := map[time.Time]models.Bar{}
	for _, row := range raw.Rows {
		o := cell(row, idx["open"])
		h := cell(row, idx["high"])
		l := cell(row, idx["low"])
		c := cell(row, idx["close"])
		if o == nil || h == nil || l == nil || c == nil {
			continue
		}
		if *c <= 0 {
			continue
		}

		vol := 0.0
		if hasVol {
			if v := cell(row, volIdx); v != nil && *v >= 0 {
				vol = *v
			}
		}

		d := row.Date.UTC()
		d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		byDate[d] = models.Bar{Date: d, Open: *o, High: *h, Low: *l, Close: *c, Volume: vol}
	}

	series := make(models.Series, 0, len(byDate))
	for _, bar := range byDate {
		series = append(series, bar)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// RawFromSeries wraps an already-clean series back into raw form. Useful when
// a caller needs to re-run the pipeline over derived data.
func RawFromSeries(s models.Series) RawTable {
	raw := RawTable{Columns: []string{"open", "high", "low", "close", "volume"}}
	for _, b := range s {
		raw.Rows = append(raw.Rows, RawRow{
			Date: b.Date,
			Cells: []string{
				formatCell(b.Open),
				formatCell(b.High),
				formatCell(b.Low),
				formatCell(b.Close),
				formatCell(b.Volume),
			},
		})
	}
	return raw
}

// formatCell renders a float without exponent notation so the numeric parser
// round-trips it exactly.
func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
