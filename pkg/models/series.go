// Package models defines the core data structures shared across FinFetch:
// OHLCV price series, fundamentals metric sets, and technical analysis reports.
package models

import "time"

// Bar represents a single OHLCV candlestick.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an OHLCV price history. Invariants (enforced by
// datasource.CleanTable): dates strictly increasing with no duplicates,
// close > 0 on every bar, volume >= 0.
type Series []Bar

// Len returns the number of bars.
func (s Series) Len() int { return len(s) }

// Empty reports whether the series has no bars.
func (s Series) Empty() bool { return len(s) == 0 }

// Last returns the most recent bar. Callers must check Empty first.
func (s Series) Last() Bar { return s[len(s)-1] }

// Closes returns the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Opens returns the open column.
func (s Series) Opens() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Open
	}
	return out
}

// Highs returns the high column.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volume column.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}
