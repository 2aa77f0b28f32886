// Package erlang implements the Erlang C queueing formula used to size
// call-center staffing.
package erlang

import "math"

// C returns the probability that an arriving call has to wait because all
// c servers are busy, given the offered load r (arrival rate / service rate).
//
// c <= 0 always waits and r <= 0 never waits. The normalization term is built
// with the recurrence tot = 1 + tot*i/r instead of factorials so large server
// counts do not overflow. The result is clamped to [0, 1].
func C(c int, r float64) float64 {
	if c <= 0 {
		return 1
	}
	if r <= 0 {
		return 0
	}

	tot := 1.0
	for i := 1; i < c; i++ {
		tot = 1 + tot*float64(i)/r
	}
	p := (r * (1 / tot)) / (float64(c) - r*(1-1/tot))

	if math.IsNaN(p) {
		return 1
	}
	return math.Max(0, math.Min(1, p))
}

// CFloat is C for a fractional server count, truncated toward zero.
func CFloat(c, r float64) float64 {
	if c <= 0 || math.IsNaN(c) {
		return 1
	}
	if c > math.MaxInt32 {
		c = math.MaxInt32
	}
	return C(int(c), r)
}

// OfferedLoad converts an arrival rate and a per-server service rate
// (both per hour) into the dimensionless load in Erlangs.
func OfferedLoad(arrivalRate, serviceRate float64) float64 {
	return arrivalRate / serviceRate
}
