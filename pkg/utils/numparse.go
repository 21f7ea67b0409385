// Package utils provides common helpers for FinFetch: numeric parsing of
// scraped values, ticker normalization, and IST time handling.
package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// ParseNumber converts a heterogeneous textual value into a float.
//
// Rules, in order:
//   - text containing "/" is truncated at the first slash (combined
//     "High / Low" cells; callers needing both sides must split first)
//   - a value fully wrapped in parentheses is negated (accounting style)
//   - thousands separators are stripped
//   - the first signed decimal number is extracted by pattern match
//
// Returns nil when no number can be extracted. Never panics.
func ParseNumber(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if i := strings.Index(text, "/"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}

	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = "-" + text[1:len(text)-1]
	}

	text = strings.ReplaceAll(text, ",", "")

	match := numberPattern.FindString(text)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}
