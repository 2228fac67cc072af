package estimate

import (
	"math"
	"sort"
)

// Median returns the median of values. For even-length input it averages the
// two central elements. Returns 0 for empty input.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mean returns the arithmetic mean of values, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// CoefficientOfVariation returns stddev/mean, or 0 when the mean is 0.
func CoefficientOfVariation(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return StdDev(values) / mean
}

// RemoveOutliers drops values outside the 1.5*IQR fences. Quartiles are taken
// at the floor(n*0.25) and floor(n*0.75) indices of the sorted sample rather
// than by interpolation; downstream expectations are calibrated to exactly
// this indexing, so it must not be "fixed" casually. Input of fewer than 4
// values is returned unchanged. Order of survivors is preserved.
func RemoveOutliers(values []float64) []float64 {
	n := len(values)
	if n < 4 {
		return values
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := sorted[int(math.Floor(float64(n)*0.25))]
	q3 := sorted[int(math.Floor(float64(n)*0.75))]
	iqr := q3 - q1

	low := q1 - 1.5*iqr
	high := q3 + 1.5*iqr

	kept := make([]float64, 0, n)
	for _, v := range values {
		if v >= low && v <= high {
			kept = append(kept, v)
		}
	}
	return kept
}

// retainCleaned reports whether the outlier-removed sample should replace the
// original: it must keep at least 70% of the points, or at least 5 points.
func retainCleaned(original, cleaned int) bool {
	if cleaned >= 5 {
		return true
	}
	return float64(cleaned) >= 0.7*float64(original)
}

// minMax returns the smallest and largest element of a non-empty slice.
func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
