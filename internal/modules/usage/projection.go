package usage

import (
	"fmt"
	"math"

	"github.com/wattadvisor/wattadvisor/pkg/formulas"
)

// ciZ is the z value for a 95% confidence interval
const ciZ = 1.96

// trend factor clamp keeps a short-lived drift from dominating a
// season's historical level
const (
	trendFactorMin = 0.8
	trendFactorMax = 1.2
)

// project builds the 12-month forward forecast. Seasonal profiles project
// each month at its season's historical average adjusted by the recent
// trend; everything else projects a flat trailing moving average.
// Bounds are projection +/- 1.96 stddev, clipped at zero.
func (p *Profiler) project(filled []observation, stats UsageStatistics, seasonal SeasonalAnalysis, quality DataQualityMetrics, profileType ProfileType) UsageProjection {
	start := firstOfNextMonth(filled[len(filled)-1].month)

	var (
		method      string
		assumptions []string
		valueFor    func(step int) float64
	)

	if profileType == ProfileSeasonal {
		method = MethodSeasonalAverage

		averages := make(map[Season]float64, 4)
		for _, pattern := range seasonal.Patterns {
			averages[pattern.Season] = pattern.AverageKWh
		}

		trend := trendFactor(filled)
		assumptions = append(assumptions,
			"each month projected at its season's historical average",
			fmt.Sprintf("recent-trend adjustment factor %.3f applied", trend))

		valueFor = func(step int) float64 {
			month := start.AddDate(0, step, 0)
			avg := averages[SeasonOf(month.Month())]
			if avg == 0 {
				// Season never observed; fall back to the overall mean
				avg = stats.MeanKWh
			}
			return avg * trend
		}
	} else {
		method = MethodMovingAverage

		window := p.cfg.MovingAverageWindow
		if window > len(filled) {
			window = len(filled)
		}
		recent := make([]float64, 0, window)
		for _, o := range filled[len(filled)-window:] {
			recent = append(recent, o.kwh)
		}
		level := formulas.Mean(recent)
		assumptions = append(assumptions,
			fmt.Sprintf("flat projection at the trailing %d-month average", window))

		valueFor = func(int) float64 { return level }
	}

	margin := ciZ * stats.StdDevKWh
	forecasts := make([]MonthlyForecast, 12)
	for i := range forecasts {
		value := valueFor(i)
		forecasts[i] = MonthlyForecast{
			Month:    start.AddDate(0, i, 0),
			KWh:      value,
			LowerKWh: math.Max(0, value-margin),
			UpperKWh: value + margin,
		}
	}

	// Seasonal confidence carries through, floored by data completeness
	confidence := clamp01(math.Max(seasonal.ConfidenceScore, quality.CompletenessPct/100))
	if profileType == ProfileInsufficientData {
		confidence = math.Min(confidence, 0.25)
	}

	return UsageProjection{
		MonthlyKWh:      forecasts,
		Method:          method,
		Assumptions:     assumptions,
		ConfidenceScore: confidence,
	}
}

// trendFactor compares the recent half-year level against the full
// series level, clamped so one hot month cannot double a projection.
func trendFactor(filled []observation) float64 {
	all := make([]float64, len(filled))
	for i, o := range filled {
		all[i] = o.kwh
	}

	overall := formulas.Mean(all)
	if overall == 0 {
		return 1
	}

	recentWindow := 6
	if recentWindow > len(all) {
		recentWindow = len(all)
	}
	recent := formulas.Mean(all[len(all)-recentWindow:])

	factor := recent / overall
	return math.Max(trendFactorMin, math.Min(trendFactorMax, factor))
}
