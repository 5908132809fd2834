package analysis

import (
	"math"
	"slices"
)

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// median finds the median value in a slice of floats.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// percentile returns the p-th percentile using sorted-index selection, the
// same scheme the residency stats use: index = floor(n * p/100).
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	idx := int(float64(len(temp)) * p / 100.0)
	if idx >= len(temp) {
		idx = len(temp) - 1
	}
	return temp[idx]
}

// safeDiv divides a by b, returning 0 when the denominator is 0. The engine
// favors numeric degradation over NaN/Inf.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// round2 rounds to 2 decimals for stable, display-friendly output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
