package utils

import "strings"

// Exchange suffixes recognized on user-supplied tickers.
const (
	SuffixNSE = ".NS"
	SuffixBSE = ".BO"
)

// NormalizeTicker strips whitespace, uppercases, and removes any known
// exchange suffix, returning the base symbol threaded through all providers.
// The detected exchange ("NSE", "BSE", or "") is returned alongside.
func NormalizeTicker(ticker string) (base, exchange string) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	t = strings.TrimPrefix(t, "$")

	switch {
	case strings.HasSuffix(t, SuffixNSE):
		return strings.TrimSuffix(t, SuffixNSE), "NSE"
	case strings.HasSuffix(t, SuffixBSE):
		return strings.TrimSuffix(t, SuffixBSE), "BSE"
	case strings.HasSuffix(t, ".BSE"):
		return strings.TrimSuffix(t, ".BSE"), "BSE"
	}
	return t, ""
}

// YahooSymbol derives the Yahoo Finance symbol for a base ticker on the given
// exchange ("NSE" or "BSE").
func YahooSymbol(base, exchange string) string {
	if exchange == "BSE" {
		return base + SuffixBSE
	}
	return base + SuffixNSE
}

// StooqSymbol derives the Stooq symbol: lower-cased base with an ".ns" suffix.
func StooqSymbol(base string) string {
	return strings.ToLower(base) + ".ns"
}

// TiingoSymbol derives the Tiingo symbol. Indian equities require the "nse/"
// market prefix on a lower-cased base ticker.
func TiingoSymbol(base string) string {
	return "nse/" + strings.ToLower(base)
}

// TwelveDataExchange maps an exchange label to the Twelve Data exchange code.
func TwelveDataExchange(exchange string) string {
	if exchange == "BSE" {
		return "BSE"
	}
	return "XNSE"
}
