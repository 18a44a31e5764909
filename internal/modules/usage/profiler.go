package usage

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/pkg/formulas"
)

// Config holds the profiling thresholds.
// Defaults are empirically chosen; tests override individual fields.
type Config struct {
	MinMonthsForAnalysis   int     // below this the profile is insufficient_data
	SeasonalRatioThreshold float64 // summer:winter deviation from 1 that flags a pattern
	PeakToAvgThreshold     float64 // peak season vs overall average that flags a pattern
	VolatilityThreshold    float64 // coefficient of variation that flags a variable profile
	HighUsageMultiplier    float64 // mean above regionalAvg x this flags a high user
	HighUsageAbsoluteKWh   float64 // monthly mean fallback when no regional average is known
	IQRMultiplier          float64 // Tukey fence multiplier for outlier detection
	MovingAverageWindow    int     // trailing window for non-seasonal projection
}

// DefaultConfig returns the documented default thresholds
func DefaultConfig() Config {
	return Config{
		MinMonthsForAnalysis:   3,
		SeasonalRatioThreshold: 1.3,
		PeakToAvgThreshold:     1.25,
		VolatilityThreshold:    0.35,
		HighUsageMultiplier:    1.5,
		HighUsageAbsoluteKWh:   1200,
		IQRMultiplier:          1.5,
		MovingAverageWindow:    3,
	}
}

// Profiler turns raw monthly consumption into a UsageProfile.
// Pure computation: no I/O, no shared state, never returns an error for
// well-typed input - degraded inputs degrade the output instead.
type Profiler struct {
	cfg Config
	log zerolog.Logger
}

// NewProfiler creates a new usage profiler
func NewProfiler(cfg Config, log zerolog.Logger) *Profiler {
	return &Profiler{
		cfg: cfg,
		log: log.With().Str("module", "usage").Logger(),
	}
}

// observation is one month in the normalized working series
type observation struct {
	month        time.Time
	kwh          float64
	interpolated bool
}

// Profile computes the full usage profile from 0-24 monthly points.
// regionalAvgKWh (monthly) substitutes for statistics when no history
// exists; pass 0 when unknown.
func (p *Profiler) Profile(points []domain.MonthlyUsagePoint, regionalAvgKWh float64) UsageProfile {
	var warnings []string

	observed, normWarnings := normalizePoints(points)
	warnings = append(warnings, normWarnings...)

	if len(observed) == 0 {
		return p.emptyProfile(regionalAvgKWh, warnings)
	}

	filled, interpolatedCount := fillGaps(observed)
	if interpolatedCount > 0 {
		warnings = append(warnings, fmt.Sprintf("%d missing months were interpolated from neighbouring readings", interpolatedCount))
	}

	observedValues := make([]float64, 0, len(filled))
	for _, o := range filled {
		if !o.interpolated {
			observedValues = append(observedValues, o.kwh)
		}
	}

	stats := computeStatistics(observedValues)
	outliers := p.detectOutliers(filled)
	if n := len(outliers.OutlierMonths); n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d unusual consumption months flagged by %s", n, outliers.Method))
	}

	seasonal := p.analyzeSeasons(filled)
	quality := p.dataQuality(filled, interpolatedCount, len(outliers.OutlierMonths))

	profileType := p.classify(len(observedValues), stats, seasonal, regionalAvgKWh)
	if profileType == ProfileInsufficientData {
		warnings = append(warnings, fmt.Sprintf(
			"only %d months of usage history available; at least %d are needed for a reliable profile",
			len(observedValues), p.cfg.MinMonthsForAnalysis))
	}
	if stats.MeanKWh == 0 {
		warnings = append(warnings, "all recorded months show zero consumption")
	}

	projection := p.project(filled, stats, seasonal, quality, profileType)

	confidence := clamp01(0.5*quality.QualityScore + 0.5*math.Min(1, float64(len(observedValues))/12))
	if profileType == ProfileInsufficientData {
		confidence = math.Min(confidence, 0.3)
	}

	return UsageProfile{
		ProfileType:       profileType,
		Statistics:        stats,
		Seasonal:          seasonal,
		Outliers:          outliers,
		DataQuality:       quality,
		Projection:        projection,
		OverallConfidence: confidence,
		Warnings:          warnings,
	}
}

// emptyProfile handles the zero-history case: statistics substituted by
// the regional average when one is known, all-zero otherwise.
func (p *Profiler) emptyProfile(regionalAvgKWh float64, warnings []string) UsageProfile {
	warnings = append(warnings, "no usage history available")

	var stats UsageStatistics
	method := MethodMovingAverage
	monthly := 0.0
	confidence := 0.1

	if regionalAvgKWh > 0 {
		monthly = regionalAvgKWh
		method = MethodRegionalAverage
		confidence = 0.2
		warnings = append(warnings, "statistics substituted from the regional average")
		stats = UsageStatistics{
			MinKWh:         regionalAvgKWh,
			MaxKWh:         regionalAvgKWh,
			MeanKWh:        regionalAvgKWh,
			MedianKWh:      regionalAvgKWh,
			AnnualTotalKWh: regionalAvgKWh * 12,
		}
	}

	start := firstOfNextMonth(time.Now().UTC())
	forecasts := make([]MonthlyForecast, 12)
	for i := range forecasts {
		month := start.AddDate(0, i, 0)
		forecasts[i] = MonthlyForecast{Month: month, KWh: monthly, LowerKWh: monthly, UpperKWh: monthly}
	}

	return UsageProfile{
		ProfileType: ProfileInsufficientData,
		Statistics:  stats,
		Seasonal:    SeasonalAnalysis{SummerToWinterRatio: 1, PeakToAvgRatio: 1},
		Outliers:    OutlierDetection{Method: outlierMethodName},
		DataQuality: DataQualityMetrics{},
		Projection: UsageProjection{
			MonthlyKWh:      forecasts,
			Method:          method,
			Assumptions:     []string{"no usage history; flat projection"},
			ConfidenceScore: confidence,
		},
		OverallConfidence: confidence,
		Warnings:          warnings,
	}
}

// classify applies the profile rules in priority order
func (p *Profiler) classify(observedMonths int, stats UsageStatistics, seasonal SeasonalAnalysis, regionalAvgKWh float64) ProfileType {
	if observedMonths < p.cfg.MinMonthsForAnalysis {
		return ProfileInsufficientData
	}
	if seasonal.HasSeasonalPattern {
		return ProfileSeasonal
	}

	highThreshold := p.cfg.HighUsageAbsoluteKWh
	if regionalAvgKWh > 0 {
		highThreshold = regionalAvgKWh * p.cfg.HighUsageMultiplier
	}
	if stats.MeanKWh > highThreshold {
		return ProfileHighUser
	}

	if stats.CoefficientOfVariation > p.cfg.VolatilityThreshold {
		return ProfileVariable
	}

	return ProfileBaseline
}

// dataQuality measures completeness across the observed calendar span
func (p *Profiler) dataQuality(filled []observation, interpolated, outliers int) DataQualityMetrics {
	total := len(filled)
	observed := total - interpolated

	completeness := 100.0
	if total > 0 {
		completeness = float64(observed) / float64(total) * 100
	}

	outlierFraction := 0.0
	if observed > 0 {
		outlierFraction = float64(outliers) / float64(observed)
	}

	quality := clamp01(0.7*(completeness/100) + 0.3*(1-outlierFraction))

	return DataQualityMetrics{
		TotalMonths:        total,
		ObservedMonths:     observed,
		MissingMonths:      interpolated,
		InterpolatedMonths: interpolated,
		CompletenessPct:    completeness,
		QualityScore:       quality,
	}
}

// computeStatistics derives summary statistics from observed values only.
// The annual total is the observed sum scaled to a 12-month year.
func computeStatistics(values []float64) UsageStatistics {
	if len(values) == 0 {
		return UsageStatistics{}
	}

	mean := formulas.Mean(values)
	return UsageStatistics{
		MinKWh:                 formulas.Min(values),
		MaxKWh:                 formulas.Max(values),
		MeanKWh:                mean,
		MedianKWh:              formulas.Median(values),
		StdDevKWh:              formulas.StdDev(values),
		CoefficientOfVariation: formulas.CoefficientOfVariation(values),
		AnnualTotalKWh:         mean * 12,
	}
}

// normalizePoints sorts, deduplicates (last reading wins) and clamps
// negative readings to zero.
func normalizePoints(points []domain.MonthlyUsagePoint) ([]observation, []string) {
	var warnings []string

	byMonth := make(map[time.Time]float64, len(points))
	for _, pt := range points {
		month := time.Date(pt.Month.Year(), pt.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
		kwh := pt.KWh
		if kwh < 0 {
			warnings = append(warnings, fmt.Sprintf("negative reading for %s clamped to zero", month.Format("2006-01")))
			kwh = 0
		}
		byMonth[month] = kwh
	}

	observed := make([]observation, 0, len(byMonth))
	for month, kwh := range byMonth {
		observed = append(observed, observation{month: month, kwh: kwh})
	}
	sort.Slice(observed, func(i, j int) bool { return observed[i].month.Before(observed[j].month) })

	return observed, warnings
}

// fillGaps linearly interpolates missing calendar months between the two
// nearest real readings. Interpolated months are marked so statistics and
// outlier detection can exclude them while projections include them.
func fillGaps(observed []observation) ([]observation, int) {
	if len(observed) < 2 {
		return observed, 0
	}

	var filled []observation
	interpolated := 0

	for i := 0; i < len(observed)-1; i++ {
		current := observed[i]
		next := observed[i+1]
		filled = append(filled, current)

		span := monthsBetween(current.month, next.month)
		for step := 1; step < span; step++ {
			frac := float64(step) / float64(span)
			filled = append(filled, observation{
				month:        current.month.AddDate(0, step, 0),
				kwh:          current.kwh + frac*(next.kwh-current.kwh),
				interpolated: true,
			})
			interpolated++
		}
	}
	filled = append(filled, observed[len(observed)-1])

	return filled, interpolated
}

// monthsBetween counts whole calendar months from a to b (both first-of-month)
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
