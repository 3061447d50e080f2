package timeseries

import (
	"math"
	"sort"
)

// RollingMean computes a trailing simple moving average over the last window
// observations. The first window-1 rows are NaN, and any NaN inside the
// window makes the average NaN: the warm-up policy never looks ahead and
// never invents values.
func RollingMean(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for t := range out {
		if t < window-1 {
			out[t] = math.NaN()
			continue
		}
		sum := 0.0
		for k := t - window + 1; k <= t; k++ {
			sum += vals[k]
		}
		out[t] = sum / float64(window)
	}
	return out
}

// PctChange computes v[t]/v[t-1]-1 per row. The first row is NaN; NaN
// operands propagate (no forward fill).
func PctChange(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for t := range out {
		if t == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = vals[t]/vals[t-1] - 1
	}
	return out
}

// Quantile returns the q-quantile of the defined (non-NaN) values using
// linear interpolation between order statistics. NaN when nothing is defined.
func Quantile(vals []float64, q float64) float64 {
	defined := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return math.NaN()
	}
	sort.Float64s(defined)
	if len(defined) == 1 {
		return defined[0]
	}
	pos := q * float64(len(defined)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return defined[lo]
	}
	frac := pos - float64(lo)
	return defined[lo]*(1-frac) + defined[hi]*frac
}

// NaNSum sums the defined values; an all-NaN input sums to 0.
func NaNSum(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

// Mean averages the defined values; NaN when nothing is defined.
func Mean(vals []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Std returns the sample standard deviation (n-1 denominator) of the defined
// values; NaN when fewer than two are defined.
func Std(vals []float64) float64 {
	mean := Mean(vals)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	sumSq, n := 0.0, 0
	for _, v := range vals {
		if !math.IsNaN(v) {
			d := v - mean
			sumSq += d * d
			n++
		}
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(sumSq / float64(n-1))
}
