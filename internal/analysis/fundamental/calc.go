package fundamental

import (
	"math"
)

// round2 rounds to two decimals.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// CAGR computes the compound annual growth rate over up to `years` periods of
// a latest-first series, as a percentage rounded to two decimals.
//
// Null values are dropped first. The effective span p is min(years, len-1);
// fewer periods than asked for shortens the horizon rather than failing.
// Returns nil when p < 1, when the start value is <= 0, or when the end value
// is negative: a sign flip across the horizon has no meaningful growth rate.
func CAGR(s *LineSeries, years int) *float64 {
	vals := s.NonNull()
	if vals.Len() < 2 {
		return nil
	}
	p := years
	if vals.Len()-1 < p {
		p = vals.Len() - 1
	}
	if p < 1 {
		return nil
	}
	end := *vals.At(0)
	start := *vals.At(p)
	if start <= 0 || end < 0 {
		return nil
	}
	rate := (math.Pow(end/start, 1/float64(p)) - 1) * 100
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}
	r := round2(rate)
	return &r
}

// YoYGrowth computes percentage growth between two positions of a latest-first
// series (idx0 newer, idx1 older), with the older value's magnitude as the
// base so a negative base still yields a signed growth direction. Nulls are
// dropped first. Returns nil when either position is unavailable or the base
// is zero.
func YoYGrowth(s *LineSeries, idx0, idx1 int) *float64 {
	vals := s.NonNull()
	if vals.Len() <= idx1 {
		return nil
	}
	v0 := *vals.At(idx0)
	v1 := *vals.At(idx1)
	if v1 == 0 {
		return nil
	}
	g := round2((v0 - v1) / math.Abs(v1) * 100)
	return &g
}

// Average computes the mean of the most recent `periods` non-null values of a
// latest-first series. Returns nil when no values survive.
func Average(s *LineSeries, periods int) *float64 {
	vals := s.NonNull()
	if vals.Len() == 0 {
		return nil
	}
	n := periods
	if vals.Len() < n {
		n = vals.Len()
	}
	if n == 0 {
		return nil
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += *vals.At(i)
	}
	avg := round2(sum / float64(n))
	return &avg
}

// Sum computes the total of the most recent `periods` non-null values.
// Returns nil when no values survive.
func Sum(s *LineSeries, periods int) *float64 {
	vals := s.NonNull()
	if vals.Len() == 0 {
		return nil
	}
	n := periods
	if vals.Len() < n {
		n = vals.Len()
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += *vals.At(i)
	}
	total = round2(total)
	return &total
}

// Ratio divides two aligned series element-wise, scaled by factor. The
// denominator series is reindexed onto the numerator's periods first. Entries
// where either side is null or the denominator is zero come out null.
func Ratio(num, den *LineSeries, factor float64) *LineSeries {
	if num == nil || den == nil {
		return nil
	}
	aligned := den.ReindexNearest(num)
	out := &LineSeries{Periods: num.Periods, Values: make([]*float64, num.Len())}
	for i := 0; i < num.Len(); i++ {
		n, d := num.At(i), aligned.At(i)
		if n == nil || d == nil || *d == 0 {
			continue
		}
		v := *n / *d * factor
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out.Values[i] = &v
	}
	return out
}

// Subtract returns num - sub element-wise after nearest-period alignment onto
// num's periods. A null on either side yields a null.
func Subtract(num, sub *LineSeries) *LineSeries {
	if num == nil {
		return nil
	}
	if sub == nil {
		return nil
	}
	aligned := sub.ReindexNearest(num)
	out := &LineSeries{Periods: num.Periods, Values: make([]*float64, num.Len())}
	for i := 0; i < num.Len(); i++ {
		a, b := num.At(i), aligned.At(i)
		if a == nil || b == nil {
			continue
		}
		v := *a - *b
		out.Values[i] = &v
	}
	return out
}

// AddSeries sums the given series element-wise after aligning each onto the
// first series' periods. A null in any operand yields a null.
func AddSeries(series ...*LineSeries) *LineSeries {
	var base *LineSeries
	for _, s := range series {
		if s != nil {
			base = s
			break
		}
	}
	if base == nil {
		return nil
	}
	out := &LineSeries{Periods: base.Periods, Values: make([]*float64, base.Len())}
	for i := 0; i < base.Len(); i++ {
		sum := 0.0
		valid := true
		for _, s := range series {
			if s == nil {
				valid = false
				break
			}
			aligned := s
			if s != base {
				aligned = s.ReindexNearest(base)
			}
			v := aligned.At(i)
			if v == nil {
				valid = false
				break
			}
			sum += *v
		}
		if valid {
			v := sum
			out.Values[i] = &v
		}
	}
	return out
}

// minConsistencyPoints is the minimum number of monthly closes required for a
// meaningful trend regression (two years of data).
const minConsistencyPoints = 24

// consistencyThreshold separates a steady compounder from a volatile or
// cyclical price history.
const consistencyThreshold = 0.85

// ConsistencyScore regresses log monthly closing prices against time and
// returns the R-squared (rounded to three decimals) plus a trend label:
// "Strong" above the threshold, "Volatile/Cyclical" otherwise. Non-positive
// closes are dropped before taking logs. Returns nils when fewer than
// minConsistencyPoints closes remain.
func ConsistencyScore(monthlyCloses []float64) (*float64, *string) {
	var logs []float64
	for _, c := range monthlyCloses {
		if c > 0 {
			logs = append(logs, math.Log(c))
		}
	}
	if len(logs) <= minConsistencyPoints {
		return nil, nil
	}

	n := float64(len(logs))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i, y := range logs {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	// Pearson correlation squared equals OLS R-squared for a single regressor.
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return nil, nil
	}
	r := (n*sumXY - sumX*sumY) / denom
	r2 := math.Round(r*r*1000) / 1000

	label := "Volatile/Cyclical"
	if r2 > consistencyThreshold {
		label = "Strong"
	}
	return &r2, &label
}
