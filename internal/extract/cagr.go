package extract

import "math"

// CAGR computes the compound annual growth rate between the earliest and
// latest year of a history. Returns false when the rate is undefined:
// fewer than two distinct years, a zero-year span, or a starting value
// that is zero or negative. The result can be negative for shrinking
// markets.
func CAGR(history map[int]float64) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}

	start, end := 0, 0
	first := true
	for y := range history {
		if first {
			start, end = y, y
			first = false
			continue
		}
		if y < start {
			start = y
		}
		if y > end {
			end = y
		}
	}

	n := end - start
	vs, ve := history[start], history[end]
	if n == 0 || vs <= 0 {
		return 0, false
	}

	return math.Pow(ve/vs, 1/float64(n)) - 1, true
}
