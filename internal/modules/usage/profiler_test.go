package usage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattadvisor/wattadvisor/internal/domain"
)

func newTestProfiler() *Profiler {
	return NewProfiler(DefaultConfig(), zerolog.Nop())
}

func monthlyPoints(year int, startMonth time.Month, kwh ...float64) []domain.MonthlyUsagePoint {
	points := make([]domain.MonthlyUsagePoint, len(kwh))
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range kwh {
		points[i] = domain.MonthlyUsagePoint{Month: start.AddDate(0, i, 0), KWh: v}
	}
	return points
}

func TestProfile_InsufficientData_Boundary(t *testing.T) {
	p := newTestProfiler()

	// Exactly 2 months: insufficient
	two := p.Profile(monthlyPoints(2025, time.January, 850, 820), 0)
	assert.Equal(t, ProfileInsufficientData, two.ProfileType)
	assert.LessOrEqual(t, two.OverallConfidence, 0.3)
	assert.NotEmpty(t, two.Warnings)

	// Exactly 3 months: no longer insufficient
	three := p.Profile(monthlyPoints(2025, time.January, 850, 820, 780), 0)
	assert.NotEqual(t, ProfileInsufficientData, three.ProfileType)
	assert.Equal(t, ProfileBaseline, three.ProfileType)
}

func TestProfile_SeasonalExample(t *testing.T) {
	p := newTestProfiler()

	// Jan-Dec with a pronounced summer cooling peak
	points := monthlyPoints(2025, time.January,
		850, 820, 780, 900, 950, 1400, 1600, 1500, 1000, 850, 800, 820)

	profile := p.Profile(points, 0)

	assert.Equal(t, ProfileSeasonal, profile.ProfileType)
	assert.True(t, profile.Seasonal.HasSeasonalPattern)
	assert.Equal(t, SeasonSummer, profile.Seasonal.DominantSeason)
	// Summer avg 1500 vs winter avg 830
	assert.InDelta(t, 1.807, profile.Seasonal.SummerToWinterRatio, 0.01)
	assert.Greater(t, profile.Seasonal.ConfidenceScore, 0.5)

	assert.InDelta(t, 1022.5, profile.Statistics.MeanKWh, 0.01)
	assert.Equal(t, MethodSeasonalAverage, profile.Projection.Method)
}

func TestProfile_Statistics(t *testing.T) {
	p := newTestProfiler()

	profile := p.Profile(monthlyPoints(2025, time.January, 100, 200, 300, 400), 0)
	stats := profile.Statistics

	assert.Equal(t, 100.0, stats.MinKWh)
	assert.Equal(t, 400.0, stats.MaxKWh)
	assert.InDelta(t, 250.0, stats.MeanKWh, 1e-9)
	assert.InDelta(t, 250.0, stats.MedianKWh, 1e-9)
	// Annual total is the mean scaled to 12 months
	assert.InDelta(t, 3000.0, stats.AnnualTotalKWh, 1e-9)

	// Ordering invariant
	assert.LessOrEqual(t, stats.MinKWh, stats.MedianKWh)
	assert.LessOrEqual(t, stats.MedianKWh, stats.MaxKWh)
}

func TestProfile_GapFilling(t *testing.T) {
	p := newTestProfiler()

	// Jan=100 and Apr=400 observed; Feb and Mar must be interpolated
	points := []domain.MonthlyUsagePoint{
		domain.NewMonthlyUsagePoint(2025, time.January, 100),
		domain.NewMonthlyUsagePoint(2025, time.April, 400),
		domain.NewMonthlyUsagePoint(2025, time.May, 500),
	}

	profile := p.Profile(points, 0)

	assert.Equal(t, 2, profile.DataQuality.InterpolatedMonths)
	assert.Equal(t, 3, profile.DataQuality.ObservedMonths)
	assert.Equal(t, 5, profile.DataQuality.TotalMonths)
	assert.InDelta(t, 60.0, profile.DataQuality.CompletenessPct, 1e-9)

	// Statistics come from observed months only
	assert.InDelta(t, (100.0+400.0+500.0)/3, profile.Statistics.MeanKWh, 1e-9)
}

func TestFillGaps_LinearInterpolation(t *testing.T) {
	observed := []observation{
		{month: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), kwh: 100},
		{month: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), kwh: 400},
	}

	filled, interpolated := fillGaps(observed)
	require.Len(t, filled, 4)
	assert.Equal(t, 2, interpolated)

	assert.InDelta(t, 200.0, filled[1].kwh, 1e-9)
	assert.True(t, filled[1].interpolated)
	assert.InDelta(t, 300.0, filled[2].kwh, 1e-9)
	assert.True(t, filled[2].interpolated)
	assert.False(t, filled[3].interpolated)
}

func TestProfile_HighUser(t *testing.T) {
	p := newTestProfiler()

	// Flat 2000 kWh/month against a 900 kWh regional average
	profile := p.Profile(monthlyPoints(2025, time.January, 2000, 2000, 2000, 2000, 2000, 2000), 900)
	assert.Equal(t, ProfileHighUser, profile.ProfileType)

	// Same usage with no regional average still trips the absolute fallback
	profile = p.Profile(monthlyPoints(2025, time.January, 2000, 2000, 2000, 2000, 2000, 2000), 0)
	assert.Equal(t, ProfileHighUser, profile.ProfileType)
}

func TestProfile_VariableUser(t *testing.T) {
	p := newTestProfiler()

	// Alternating months over a full year: volatile with no seasonal shape
	profile := p.Profile(monthlyPoints(2025, time.January,
		200, 900, 200, 900, 200, 900, 200, 900, 200, 900, 200, 900), 0)

	assert.Greater(t, profile.Statistics.CoefficientOfVariation, 0.35)
	assert.False(t, profile.Seasonal.HasSeasonalPattern)
	assert.Equal(t, ProfileVariable, profile.ProfileType)
}

func TestProfile_ZeroUsageIsValid(t *testing.T) {
	p := newTestProfiler()

	// Vacant property: all-zero usage is a valid profile, not an error
	profile := p.Profile(monthlyPoints(2025, time.January, 0, 0, 0, 0, 0, 0), 0)

	assert.Equal(t, ProfileBaseline, profile.ProfileType)
	assert.Equal(t, 0.0, profile.Statistics.MeanKWh)
	assert.Equal(t, 0.0, profile.Statistics.CoefficientOfVariation)
	require.Len(t, profile.Projection.MonthlyKWh, 12)
	for _, f := range profile.Projection.MonthlyKWh {
		assert.Equal(t, 0.0, f.KWh)
		assert.GreaterOrEqual(t, f.LowerKWh, 0.0)
	}
}

func TestProfile_EmptyInput(t *testing.T) {
	p := newTestProfiler()

	// No history, no regional average
	profile := p.Profile(nil, 0)
	assert.Equal(t, ProfileInsufficientData, profile.ProfileType)
	require.Len(t, profile.Projection.MonthlyKWh, 12)
	assert.NotEmpty(t, profile.Warnings)

	// No history but a regional average substitutes statistics
	profile = p.Profile(nil, 900)
	assert.Equal(t, ProfileInsufficientData, profile.ProfileType)
	assert.Equal(t, 900.0, profile.Statistics.MeanKWh)
	assert.Equal(t, MethodRegionalAverage, profile.Projection.Method)
	require.Len(t, profile.Projection.MonthlyKWh, 12)
	assert.Equal(t, 900.0, profile.Projection.MonthlyKWh[0].KWh)
}

func TestProfile_OutlierDetection(t *testing.T) {
	p := newTestProfiler()

	points := monthlyPoints(2025, time.January, 500, 510, 490, 505, 495, 500, 2500)
	profile := p.Profile(points, 0)

	require.Len(t, profile.Outliers.OutlierMonths, 1)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), profile.Outliers.OutlierMonths[0])
	assert.Equal(t, "iqr", profile.Outliers.Method)
}

func TestProfile_NegativeReadingClamped(t *testing.T) {
	p := newTestProfiler()

	points := monthlyPoints(2025, time.January, 500, 510, 490)
	points = append(points, domain.NewMonthlyUsagePoint(2025, time.April, -50))

	profile := p.Profile(points, 0)
	assert.Equal(t, 0.0, profile.Statistics.MinKWh)
	assert.NotEmpty(t, profile.Warnings)
}

func TestProfile_ConfidenceBounds(t *testing.T) {
	p := newTestProfiler()

	inputs := [][]domain.MonthlyUsagePoint{
		nil,
		monthlyPoints(2025, time.January, 100),
		monthlyPoints(2025, time.January, 850, 820, 780),
		monthlyPoints(2025, time.January, 850, 820, 780, 900, 950, 1400, 1600, 1500, 1000, 850, 800, 820),
	}

	for _, points := range inputs {
		profile := p.Profile(points, 0)
		assert.GreaterOrEqual(t, profile.OverallConfidence, 0.0)
		assert.LessOrEqual(t, profile.OverallConfidence, 1.0)
		assert.GreaterOrEqual(t, profile.Projection.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, profile.Projection.ConfidenceScore, 1.0)
		require.Len(t, profile.Projection.MonthlyKWh, 12)
	}
}

func TestProfile_Deterministic(t *testing.T) {
	p := newTestProfiler()
	points := monthlyPoints(2025, time.January, 850, 820, 780, 900, 950, 1400, 1600, 1500, 1000, 850, 800, 820)

	first := p.Profile(points, 900)
	second := p.Profile(points, 900)
	assert.Equal(t, first, second)
}
