package models

import (
	"encoding/json"
	"math"
)

// NASentinel is the serialized form of a missing metric. Internally a missing
// value is represented by the zero Metric; the string only exists at the JSON
// boundary so downstream merge logic can operate on data completeness.
const NASentinel = "N/A"

type metricKind int

const (
	kindNA metricKind = iota
	kindNumber
	kindString
	kindBool
)

// Metric is a single fundamentals output value: a number rounded to two
// decimals, a label, a flag, or missing. The zero value is missing.
type Metric struct {
	kind metricKind
	num  float64
	str  string
	flag bool
}

// NA returns the missing-value metric.
func NA() Metric { return Metric{} }

// Number builds a numeric metric rounded to two decimals. NaN and infinities
// collapse to the missing value so they never leak into serialized output.
func Number(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{kind: kindNumber, num: math.Round(v*100) / 100}
}

// NumberPrecise builds a numeric metric without the two-decimal rounding, for
// values whose producer already fixed their precision.
func NumberPrecise(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{kind: kindNumber, num: v}
}

// MaybeNumber builds a numeric metric from a nullable value.
func MaybeNumber(v *float64) Metric {
	if v == nil {
		return Metric{}
	}
	return Number(*v)
}

// Label builds a string-valued metric. An empty string is missing.
func Label(s string) Metric {
	if s == "" {
		return Metric{}
	}
	return Metric{kind: kindString, str: s}
}

// Flag builds a boolean metric.
func Flag(b bool) Metric { return Metric{kind: kindBool, flag: b} }

// IsNA reports whether the metric is missing.
func (m Metric) IsNA() bool { return m.kind == kindNA }

// Float returns the numeric value, if any.
func (m Metric) Float() (float64, bool) {
	if m.kind != kindNumber {
		return 0, false
	}
	return m.num, true
}

// String returns the label value, if any.
func (m Metric) String() (string, bool) {
	if m.kind != kindString {
		return "", false
	}
	return m.str, true
}

// Bool returns the flag value, if any.
func (m Metric) Bool() (bool, bool) {
	if m.kind != kindBool {
		return false, false
	}
	return m.flag, true
}

// MarshalJSON serializes the metric; missing values become the "N/A" sentinel.
func (m Metric) MarshalJSON() ([]byte, error) {
	switch m.kind {
	case kindNumber:
		return json.Marshal(m.num)
	case kindString:
		return json.Marshal(m.str)
	case kindBool:
		return json.Marshal(m.flag)
	default:
		return json.Marshal(NASentinel)
	}
}

// Metrics is the fundamentals output: a fixed key set mapping metric names to
// values. Every producer returns the full canonical key set so consumers can
// merge results field-by-field without conditional logic.
type Metrics map[string]Metric

// MetricKeys is the canonical fundamentals schema. Both the scraped and the
// vendor-statements producers emit exactly these keys.
var MetricKeys = []string{
	"Data Type",
	"Consistency Score (R2)",
	"45-Degree Trend",
	"Sales growth (Current/Last Year)",
	"Profit growth (Current/Last Year)",
	"Sales growth 3Years",
	"Sales growth 5Years",
	"Sales growth 7Years",
	"Sales growth 10Years",
	"Profit growth 3Years",
	"Profit growth 5Years",
	"Profit growth 7Years",
	"Profit growth 10Years",
	"OPM (Operating Profit Margin - Current)",
	"OPM last year",
	"OPM 5Year",
	"OPM 10Year",
	"Return on equity (Current)",
	"Return on equity preceding year",
	"Average return on equity 3Years",
	"Average return on equity 5Years",
	"Average return on equity 7Years",
	"Average return on equity 10Years",
	"Return on capital employed (Current ROCE)",
	"Average return on capital employed 3Years",
	"Average return on capital employed 5Years",
	"Average return on capital employed 7Years",
	"Average return on capital employed 10Years",
	"Debt to equity",
	"Interest Coverage Ratio",
	"Operating cash flow 5years",
	"Average EBIT 5Year",
	"Cash from operations last year",
	"Up from 52w low",
	"Down from 52w high",
	"Net block (Current)",
	"Net block (Preceding Year)",
	"Capital work in progress (Current)",
	"Capital work in progress (Preceding Year)",
	"Market Capitalization",
	"Promoter holding",
	"Pledged percentage",
	"YOY Quarterly sales growth",
	"Interest last year",
	"Financial leverage",
	"Return on assets",
	"NCAVPS",
	"PEG Ratio",
	"Dividend Payout Ratio",
	"currentPrice",
	"fiftyTwoWeekHigh",
	"fiftyTwoWeekLow",
	"bookValue",
	"dividendYield",
	"trailingPE",
	"roe",
	"roce",
	"Industry",
	"isFinancial",
}

// NewMetrics returns a metrics set with every canonical key set to missing.
func NewMetrics() Metrics {
	m := make(Metrics, len(MetricKeys))
	for _, k := range MetricKeys {
		m[k] = NA()
	}
	return m
}

// CountNA returns the number of missing values. Used by the orchestration
// boundary to decide whether the alternate statement source must be consulted.
func (m Metrics) CountNA() int {
	n := 0
	for _, v := range m {
		if v.IsNA() {
			n++
		}
	}
	return n
}

// Merge overwrites the receiver with every non-missing value from alt.
func (m Metrics) Merge(alt Metrics) {
	for k, v := range alt {
		if !v.IsNA() {
			m[k] = v
		}
	}
}
