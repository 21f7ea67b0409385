package utils

import "time"

// IST is the Indian Standard Time location (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// tz database unavailable; fall back to a fixed zone.
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time { return time.Now().In(IST) }

// FormatDateIST formats a time as YYYY-MM-DD in IST.
func FormatDateIST(t time.Time) string { return t.In(IST).Format("2006-01-02") }

// MarketStatus returns a human-readable NSE market session status.
func MarketStatus() string { return marketStatusAt(NowIST()) }

func marketStatusAt(now time.Time) string {
	now = now.In(IST)
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "Closed (weekend)"
	}
	open := time.Date(now.Year(), now.Month(), now.Day(), 9, 15, 0, 0, IST)
	close := time.Date(now.Year(), now.Month(), now.Day(), 15, 30, 0, 0, IST)
	switch {
	case now.Before(open):
		return "Pre-open"
	case now.After(close):
		return "Closed"
	default:
		return "Open"
	}
}
