// Package fundamental derives the canonical fundamentals metric set from
// financial statements, whatever their origin: scraped statement tables or a
// vendor's statements API. Both producers build StatementTable values and run
// them through the same metric derivations, so the two sources differ only in
// coverage, never in semantics.
package fundamental

import (
	"math"
	"strings"
	"time"
)

// StatementTable is a financial statement: labelled line items over reporting
// periods ordered latest-first. Values are nullable; a nil means the line was
// not reported for that period.
type StatementTable struct {
	Periods []string // latest-first, e.g. ["Mar 2025", "Mar 2024", ...]
	labels  []string
	rows    map[string][]*float64
}

// NewStatementTable creates an empty table over the given periods.
func NewStatementTable(periods []string) *StatementTable {
	return &StatementTable{
		Periods: periods,
		rows:    map[string][]*float64{},
	}
}

// AddRow inserts a line item. Values must align with Periods; shorter rows are
// padded with nils. Re-adding a label overwrites it.
func (t *StatementTable) AddRow(label string, values []*float64) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	for len(values) < len(t.Periods) {
		values = append(values, nil)
	}
	if _, exists := t.rows[label]; !exists {
		t.labels = append(t.labels, label)
	}
	t.rows[label] = values[:len(t.Periods)]
}

// SetCell sets a single value on an existing row. Unknown labels and
// out-of-range periods are ignored.
func (t *StatementTable) SetCell(label string, period int, value *float64) {
	row, ok := t.rows[label]
	if !ok || period < 0 || period >= len(row) {
		return
	}
	row[period] = value
}

// Empty reports whether the table has no line items.
func (t *StatementTable) Empty() bool { return t == nil || len(t.labels) == 0 }

// Labels returns the line item labels in insertion order.
func (t *StatementTable) Labels() []string {
	if t == nil {
		return nil
	}
	return t.labels
}

// Series looks up a line item by trying candidates in order: an exact
// case-insensitive match first, then a case-insensitive substring match in
// either direction between candidate and label. Returns nil when no candidate
// matches.
func (t *StatementTable) Series(candidates ...string) *LineSeries {
	if t.Empty() {
		return nil
	}
	for _, cand := range candidates {
		lc := strings.ToLower(strings.TrimSpace(cand))
		for _, label := range t.labels {
			if strings.ToLower(label) == lc {
				return &LineSeries{Periods: t.Periods, Values: t.rows[label]}
			}
		}
	}
	for _, cand := range candidates {
		lc := strings.ToLower(strings.TrimSpace(cand))
		for _, label := range t.labels {
			ll := strings.ToLower(label)
			if strings.Contains(ll, lc) || strings.Contains(lc, ll) {
				return &LineSeries{Periods: t.Periods, Values: t.rows[label]}
			}
		}
	}
	return nil
}

// LineSeries is one line item across reporting periods, latest-first.
type LineSeries struct {
	Periods []string
	Values  []*float64
}

// Len returns the number of periods.
func (s *LineSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// At returns the value at index i (0 = latest), or nil when out of range.
func (s *LineSeries) At(i int) *float64 {
	if s == nil || i < 0 || i >= len(s.Values) {
		return nil
	}
	return s.Values[i]
}

// NonNull returns a copy with nil values (and their periods) removed,
// preserving latest-first order.
func (s *LineSeries) NonNull() *LineSeries {
	if s == nil {
		return nil
	}
	out := &LineSeries{}
	for i, v := range s.Values {
		if v == nil {
			continue
		}
		out.Values = append(out.Values, v)
		if i < len(s.Periods) {
			out.Periods = append(out.Periods, s.Periods[i])
		} else {
			out.Periods = append(out.Periods, "")
		}
	}
	return out
}

// ReindexNearest aligns the series onto the target's periods: for each target
// period the value whose own period date is nearest is selected. When either
// side has unparseable period labels the alignment degrades to positional.
// This is the single alignment policy used by every cross-statement ratio.
func (s *LineSeries) ReindexNearest(target *LineSeries) *LineSeries {
	if s == nil || target == nil {
		return nil
	}
	targetDates, okT := parsePeriods(target.Periods)
	sourceDates, okS := parsePeriods(s.Periods)

	out := &LineSeries{Periods: target.Periods, Values: make([]*float64, len(target.Periods))}
	if !okT || !okS {
		for i := range out.Values {
			out.Values[i] = s.At(i)
		}
		return out
	}

	for i, td := range targetDates {
		best, bestDist := -1, math.MaxFloat64
		for j, sd := range sourceDates {
			dist := math.Abs(td.Sub(sd).Hours())
			if dist < bestDist {
				best, bestDist = j, dist
			}
		}
		if best >= 0 {
			out.Values[i] = s.At(best)
		}
	}
	return out
}

// periodLayouts are the reporting period label formats seen across sources.
var periodLayouts = []string{"Jan 2006", "2006-01-02", "Jan 2, 2006", "2006"}

// parsePeriods parses every period label into a date. Reports false when any
// label fails, which downgrades alignment to positional.
func parsePeriods(periods []string) ([]time.Time, bool) {
	out := make([]time.Time, len(periods))
	for i, p := range periods {
		p = strings.TrimSpace(p)
		if strings.EqualFold(p, "TTM") {
			out[i] = time.Now().UTC()
			continue
		}
		parsed, ok := ParsePeriod(p)
		if !ok {
			return nil, false
		}
		out[i] = parsed
	}
	return out, true
}

// ParsePeriod parses a reporting period label ("Mar 2024", "2024-03-31",
// "2024") into a date.
func ParsePeriod(p string) (time.Time, bool) {
	for _, layout := range periodLayouts {
		if d, err := time.Parse(layout, p); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
