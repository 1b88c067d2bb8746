// Package transform derives daily deltas and trailing rolling means from
// cumulative count series.
//
// All outputs keep the length of their input so that index i always lines
// up with the dataset's Dates[i]. Positions without a value are NaN; callers
// must treat NaN as absent, never as zero.
package transform

import (
	"math"

	"github.com/go-gota/gota/series"
)

// DefaultWindow is the rolling mean window in days.
const DefaultWindow = 7

// Delta returns the first difference of a cumulative series.
// out[0] is NaN; out[k] = values[k] - values[k-1].
func Delta(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = math.NaN()
	for k := 1; k < len(values); k++ {
		out[k] = values[k] - values[k-1]
	}
	return out
}

// Rolling returns the trailing mean of values over window points.
// out[k] is defined only when the window values[k-window+1..k] lies inside
// the series and holds no NaN.
func Rolling(values []float64, window int) []float64 {
	if window <= 0 {
		out := make([]float64, len(values))
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	return series.New(values, series.Float, "").Rolling(window).Mean().Float()
}

// RollingDelta is Rolling(Delta(values), window).
func RollingDelta(values []float64, window int) []float64 {
	return Rolling(Delta(values), window)
}

// Last returns the trailing n values. The result aliases values.
func Last(values []float64, n int) []float64 {
	if n <= 0 {
		return values[:0]
	}
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}

// Defined reports whether v holds a value.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}
