package technical

import (
	"github.com/seenimoa/finfetch/pkg/models"
)

// Candle anatomy thresholds, as fractions of the candle range.
const (
	dojiBodyPct     = 0.05 // body under 5% of range
	pinBodyPct      = 0.35 // hammer/shooting-star body cap
	pinOppositePct  = 0.10 // opposite wick cap
	pinWickBodyMult = 2.0  // dominant wick at least twice the body
)

// candleWick decomposes the latest bar into body and wick anatomy and
// classifies the basic single-candle patterns. A zero-range bar (all four
// prices equal) is reported explicitly as a doji with zero percentages rather
// than leaving the fields null.
func candleWick(open, high, low, close float64) models.CandleWickGroup {
	candleRange := high - low
	body := absFloat(close - open)
	bodyHigh := open
	bodyLow := close
	if close > open {
		bodyHigh, bodyLow = close, open
	}
	upperWick := high - bodyHigh
	lowerWick := bodyLow - low

	group := models.CandleWickGroup{
		CandleRange: round4(candleRange),
		Body:        round4(body),
		UpperWick:   round4(upperWick),
		LowerWick:   round4(lowerWick),
	}

	if candleRange == 0 {
		zero := 0.0
		doji := "doji"
		t, f := true, false
		group.UpperWickPct = &zero
		group.LowerWickPct = &zero
		group.BodyPct = &zero
		group.CandleType = &doji
		group.IsDoji = &t
		group.IsHammer = &f
		group.IsShootingStar = &f
		group.IsPinBar = &f
		return group
	}

	upperPct := upperWick / candleRange
	lowerPct := lowerWick / candleRange
	bodyPct := body / candleRange
	group.UpperWickPct = round4(upperPct * 100)
	group.LowerWickPct = round4(lowerPct * 100)
	group.BodyPct = round4(bodyPct * 100)

	isDoji := bodyPct < dojiBodyPct
	isHammer := lowerWick >= pinWickBodyMult*body &&
		upperPct <= pinOppositePct &&
		bodyPct <= pinBodyPct
	isShootingStar := upperWick >= pinWickBodyMult*body &&
		lowerPct <= pinOppositePct &&
		bodyPct <= pinBodyPct
	isPinBar := isHammer || isShootingStar

	candleType := "neutral"
	switch {
	case isDoji:
		candleType = "doji"
	case isHammer:
		candleType = "hammer"
	case isShootingStar:
		candleType = "shooting_star"
	case close > open:
		candleType = "bullish"
	case close < open:
		candleType = "bearish"
	}

	group.CandleType = &candleType
	group.IsDoji = &isDoji
	group.IsHammer = &isHammer
	group.IsShootingStar = &isShootingStar
	group.IsPinBar = &isPinBar
	return group
}
