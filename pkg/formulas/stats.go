package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the population standard deviation of a slice of float64 values.
// Population (not sample) deviation is used because a household's observed months
// are the full population for profiling, not a sample of a larger set.
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.PopStdDev(data, nil)
}

// Variance calculates the population variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.PopVariance(data, nil)
}

// CoefficientOfVariation calculates stddev/mean.
// Returns 0 when the mean is 0 (vacant property, all-zero usage).
func CoefficientOfVariation(data []float64) float64 {
	mean := Mean(data)
	if mean == 0 {
		return 0
	}
	return StdDev(data) / mean
}

// Median calculates the median of a slice of float64 values
func Median(data []float64) float64 {
	return Percentile(data, 50)
}

// Percentile calculates the p-th percentile (0-100) using linear
// interpolation between closest ranks.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Quartiles returns Q1, Q2 (median) and Q3 of the dataset
func Quartiles(data []float64) (q1, q2, q3 float64) {
	return Percentile(data, 25), Percentile(data, 50), Percentile(data, 75)
}

// IQRBounds returns the Tukey fence bounds for outlier detection:
// [Q1 - multiplier*IQR, Q3 + multiplier*IQR]. The conventional multiplier is 1.5.
func IQRBounds(data []float64, multiplier float64) (lower, upper float64) {
	q1, _, q3 := Quartiles(data)
	iqr := q3 - q1
	return q1 - multiplier*iqr, q3 + multiplier*iqr
}

// Min returns the smallest value in the dataset (0 for empty input)
func Min(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	min := data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value in the dataset (0 for empty input)
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	max := data[0]
	for _, v := range data[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the total of the dataset
func Sum(data []float64) float64 {
	total := 0.0
	for _, v := range data {
		total += v
	}
	return total
}

// LinearTrend fits a least-squares line through the dataset (x = 0..n-1)
// and returns the slope per step. Used to adjust seasonal projections for
// an overall upward or downward drift in consumption.
func LinearTrend(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}

	xs := make([]float64, len(data))
	for i := range xs {
		xs[i] = float64(i)
	}

	_, slope := stat.LinearRegression(xs, data, nil, false)
	return slope
}
