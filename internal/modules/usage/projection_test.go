package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_MovingAverage(t *testing.T) {
	p := newTestProfiler()

	profile := p.Profile(monthlyPoints(2025, time.January, 400, 500, 600), 0)
	projection := profile.Projection

	assert.Equal(t, MethodMovingAverage, projection.Method)
	require.Len(t, projection.MonthlyKWh, 12)

	// Flat projection at the trailing 3-month average
	expected := (400.0 + 500.0 + 600.0) / 3
	for _, f := range projection.MonthlyKWh {
		assert.InDelta(t, expected, f.KWh, 1e-9)
	}

	// Projection starts the month after the last reading
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), projection.MonthlyKWh[0].Month)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), projection.MonthlyKWh[11].Month)
}

func TestProject_SeasonalAverage(t *testing.T) {
	p := newTestProfiler()

	profile := p.Profile(monthlyPoints(2025, time.January,
		850, 820, 780, 900, 950, 1400, 1600, 1500, 1000, 850, 800, 820), 0)
	projection := profile.Projection

	require.Equal(t, MethodSeasonalAverage, projection.Method)
	require.Len(t, projection.MonthlyKWh, 12)

	// First projected month is January: winter level, trend-adjusted
	jan := projection.MonthlyKWh[0]
	assert.Equal(t, time.January, jan.Month.Month())

	// July projection reflects the summer level and sits well above January
	var jul MonthlyForecast
	for _, f := range projection.MonthlyKWh {
		if f.Month.Month() == time.July {
			jul = f
		}
	}
	assert.Greater(t, jul.KWh, jan.KWh)
	assert.Greater(t, jul.KWh, 1200.0)
}

func TestProject_ConfidenceBounds(t *testing.T) {
	p := newTestProfiler()

	profile := p.Profile(monthlyPoints(2025, time.January, 400, 500, 600, 450, 550, 500), 0)

	margin := ciZ * profile.Statistics.StdDevKWh
	for _, f := range profile.Projection.MonthlyKWh {
		assert.InDelta(t, f.KWh-margin, f.LowerKWh, 1e-9)
		assert.InDelta(t, f.KWh+margin, f.UpperKWh, 1e-9)
		assert.GreaterOrEqual(t, f.LowerKWh, 0.0)
	}
}

func TestProject_LowerBoundClippedAtZero(t *testing.T) {
	p := newTestProfiler()

	// Small level with large spread: lower bound would go negative
	profile := p.Profile(monthlyPoints(2025, time.January, 10, 300, 20, 310, 15, 305), 0)

	for _, f := range profile.Projection.MonthlyKWh {
		assert.GreaterOrEqual(t, f.LowerKWh, 0.0)
	}
}

func TestTrendFactor_Clamped(t *testing.T) {
	// Strong recent growth clamps at the upper bound
	growing := obsSeries(2025, time.January, 100, 100, 100, 100, 100, 100, 900, 900, 900, 900, 900, 900)
	assert.InDelta(t, trendFactorMax, trendFactor(growing), 1e-9)

	// Strong recent decline clamps at the lower bound
	declining := obsSeries(2025, time.January, 900, 900, 900, 900, 900, 900, 100, 100, 100, 100, 100, 100)
	assert.InDelta(t, trendFactorMin, trendFactor(declining), 1e-9)

	// Flat series has no trend
	flat := obsSeries(2025, time.January, 500, 500, 500, 500)
	assert.InDelta(t, 1.0, trendFactor(flat), 1e-9)
}
