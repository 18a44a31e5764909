package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 850.0, Mean([]float64{800, 900}), 1e-9)
}

func TestStdDev_Population(t *testing.T) {
	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, StdDev(data), 1e-9)

	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{42}))
}

func TestCoefficientOfVariation(t *testing.T) {
	// Zero mean must not divide by zero
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{0, 0, 0}))
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))

	data := []float64{2, 4, 4, 4, 5, 5, 7, 9} // mean 5, pop stddev 2
	assert.InDelta(t, 0.4, CoefficientOfVariation(data), 1e-9)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.InDelta(t, 2.0, Median([]float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 2.5, Median([]float64{1, 2, 3, 4}), 1e-9)
	// Input order must not matter
	assert.InDelta(t, 2.5, Median([]float64{4, 1, 3, 2}), 1e-9)
}

func TestPercentile(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 1.0, Percentile(data, 0), 1e-9)
	assert.InDelta(t, 5.0, Percentile(data, 100), 1e-9)
	assert.InDelta(t, 2.0, Percentile(data, 25), 1e-9)
	assert.InDelta(t, 4.0, Percentile(data, 75), 1e-9)
	// Interpolated value between ranks
	assert.InDelta(t, 1.4, Percentile(data, 10), 1e-9)
}

func TestIQRBounds(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	lower, upper := IQRBounds(data, 1.5)
	// Q1=2, Q3=4, IQR=2 -> fences at -1 and 7
	assert.InDelta(t, -1.0, lower, 1e-9)
	assert.InDelta(t, 7.0, upper, 1e-9)
}

func TestMinMaxSum(t *testing.T) {
	data := []float64{3, 1, 4, 1, 5}
	assert.Equal(t, 1.0, Min(data))
	assert.Equal(t, 5.0, Max(data))
	assert.InDelta(t, 14.0, Sum(data), 1e-9)

	assert.Equal(t, 0.0, Min(nil))
	assert.Equal(t, 0.0, Max(nil))
	assert.Equal(t, 0.0, Sum(nil))
}

func TestLinearTrend(t *testing.T) {
	// Perfectly linear series: slope 2 per step
	assert.InDelta(t, 2.0, LinearTrend([]float64{10, 12, 14, 16}), 1e-9)
	// Flat series: no trend
	assert.InDelta(t, 0.0, LinearTrend([]float64{5, 5, 5, 5}), 1e-9)
	// Too short to fit
	assert.Equal(t, 0.0, LinearTrend([]float64{5}))
}
