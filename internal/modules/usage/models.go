package usage

import "time"

// ProfileType classifies a household's consumption pattern.
// Closed enum; consumers switch exhaustively over it.
type ProfileType string

const (
	ProfileInsufficientData ProfileType = "insufficient_data"
	ProfileSeasonal         ProfileType = "seasonal"
	ProfileHighUser         ProfileType = "high_user"
	ProfileVariable         ProfileType = "variable"
	ProfileBaseline         ProfileType = "baseline"
)

// Season buckets calendar months for seasonal analysis
type Season string

const (
	SeasonWinter Season = "winter" // Dec-Feb
	SeasonSpring Season = "spring" // Mar-May
	SeasonSummer Season = "summer" // Jun-Aug
	SeasonFall   Season = "fall"   // Sep-Nov
)

// SeasonOf maps a calendar month to its season
func SeasonOf(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// UsageStatistics summarizes observed monthly consumption
type UsageStatistics struct {
	MinKWh                 float64 `json:"min_kwh"`
	MaxKWh                 float64 `json:"max_kwh"`
	MeanKWh                float64 `json:"mean_kwh"`
	MedianKWh              float64 `json:"median_kwh"`
	StdDevKWh              float64 `json:"stddev_kwh"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	AnnualTotalKWh         float64 `json:"annual_total_kwh"`
}

// SeasonPattern is the per-season aggregate
type SeasonPattern struct {
	Season     Season  `json:"season"`
	AverageKWh float64 `json:"average_kwh"`
	Months     int     `json:"months"`
}

// SeasonalAnalysis describes how consumption moves across the year
type SeasonalAnalysis struct {
	HasSeasonalPattern  bool            `json:"has_seasonal_pattern"`
	DominantSeason      Season          `json:"dominant_season"`
	Patterns            []SeasonPattern `json:"patterns"`
	SummerToWinterRatio float64         `json:"summer_to_winter_ratio"`
	PeakToAvgRatio      float64         `json:"peak_to_avg_ratio"`
	ConfidenceScore     float64         `json:"confidence_score"`
}

// OutlierDetection carries flagged months and the method used
type OutlierDetection struct {
	Method        string      `json:"method"`
	OutlierMonths []time.Time `json:"outlier_months"`
	LowerBound    float64     `json:"lower_bound"`
	UpperBound    float64     `json:"upper_bound"`
}

// DataQualityMetrics measures how complete and trustworthy the input was
type DataQualityMetrics struct {
	TotalMonths        int     `json:"total_months"`
	ObservedMonths     int     `json:"observed_months"`
	MissingMonths      int     `json:"missing_months"`
	InterpolatedMonths int     `json:"interpolated_months"`
	CompletenessPct    float64 `json:"completeness_pct"`
	QualityScore       float64 `json:"quality_score"`
}

// MonthlyForecast is one projected month with its 95% confidence bounds
type MonthlyForecast struct {
	Month    time.Time `json:"month"`
	KWh      float64   `json:"kwh"`
	LowerKWh float64   `json:"lower_kwh"`
	UpperKWh float64   `json:"upper_kwh"`
}

// Projection method names recorded in UsageProjection.Method
const (
	MethodSeasonalAverage = "seasonal_average"
	MethodMovingAverage   = "moving_average"
	MethodRegionalAverage = "regional_average"
)

// UsageProjection is the 12-month forward consumption forecast
type UsageProjection struct {
	MonthlyKWh      []MonthlyForecast `json:"monthly_kwh"`
	Method          string            `json:"method"`
	Assumptions     []string          `json:"assumptions"`
	ConfidenceScore float64           `json:"confidence_score"`
}

// Values returns the 12 projected kWh values in month order
func (p UsageProjection) Values() []float64 {
	values := make([]float64, len(p.MonthlyKWh))
	for i, f := range p.MonthlyKWh {
		values[i] = f.KWh
	}
	return values
}

// UsageProfile is the full derived picture of a household's consumption.
// Immutable once computed; a re-computation replaces it whole.
type UsageProfile struct {
	ProfileType       ProfileType        `json:"profile_type"`
	Statistics        UsageStatistics    `json:"statistics"`
	Seasonal          SeasonalAnalysis   `json:"seasonal"`
	Outliers          OutlierDetection   `json:"outliers"`
	DataQuality       DataQualityMetrics `json:"data_quality"`
	Projection        UsageProjection    `json:"projection"`
	OverallConfidence float64            `json:"overall_confidence"`
	Warnings          []string           `json:"warnings,omitempty"`
}
