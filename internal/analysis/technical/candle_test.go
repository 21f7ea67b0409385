package technical

import "testing"

func TestCandleWickDojiBoundary(t *testing.T) {
	// Body 0.5 over a range of 20 is 2.5%, under the 5% doji cutoff.
	g := candleWick(100, 110, 90, 100.5)
	if g.IsDoji == nil || !*g.IsDoji {
		t.Fatal("2.5% body should classify as doji")
	}
	if g.CandleType == nil || *g.CandleType != "doji" {
		t.Errorf("candle_type = %v, want doji", g.CandleType)
	}
	if *g.BodyPct != 2.5 {
		t.Errorf("body_pct = %v, want 2.5", *g.BodyPct)
	}

	// Body exactly 5% of range is not a doji: the cutoff is strict.
	g = candleWick(100, 110, 90, 101)
	if *g.IsDoji {
		t.Error("5% body must not classify as doji")
	}
	if *g.CandleType != "bullish" {
		t.Errorf("candle_type = %q, want bullish", *g.CandleType)
	}
}

func TestCandleWickHammer(t *testing.T) {
	// Long lower wick (10), small body (1), tiny upper wick (0.5).
	g := candleWick(100, 101.5, 90, 101)
	if g.IsHammer == nil || !*g.IsHammer {
		t.Fatal("expected hammer")
	}
	if !*g.IsPinBar {
		t.Error("hammer is a pin bar")
	}
	if *g.IsShootingStar {
		t.Error("hammer is not a shooting star")
	}
	if *g.CandleType != "hammer" {
		t.Errorf("candle_type = %q", *g.CandleType)
	}
}

func TestCandleWickShootingStar(t *testing.T) {
	// Long upper wick, small body near the low.
	g := candleWick(101, 111, 100, 100.2)
	if g.IsShootingStar == nil || !*g.IsShootingStar {
		t.Fatal("expected shooting star")
	}
	if *g.CandleType != "shooting_star" {
		t.Errorf("candle_type = %q", *g.CandleType)
	}
}

func TestCandleWickZeroRange(t *testing.T) {
	g := candleWick(100, 100, 100, 100)
	if g.BodyPct == nil || *g.BodyPct != 0 {
		t.Errorf("body_pct = %v, want explicit 0", g.BodyPct)
	}
	if g.UpperWickPct == nil || *g.UpperWickPct != 0 {
		t.Errorf("upper_wick_pct = %v, want explicit 0", g.UpperWickPct)
	}
	if g.CandleType == nil || *g.CandleType != "doji" {
		t.Errorf("candle_type = %v, want doji", g.CandleType)
	}
	if g.IsDoji == nil || !*g.IsDoji {
		t.Error("zero-range bar is a doji")
	}
	if *g.IsHammer || *g.IsShootingStar || *g.IsPinBar {
		t.Error("zero-range bar has no pin patterns")
	}
}

func TestCandleWickBearish(t *testing.T) {
	g := candleWick(108, 110, 90, 95)
	if *g.CandleType != "bearish" {
		t.Errorf("candle_type = %q, want bearish", *g.CandleType)
	}
}
