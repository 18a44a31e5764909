package savings

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
	"github.com/wattadvisor/wattadvisor/internal/modules/pricing"
)

const (
	// uncertaintyConfidence is the fixed confidence level reported with
	// variable-rate cost ranges.
	uncertaintyConfidence = 0.95

	// multiYearHorizon is how many years the cost outlook covers
	multiYearHorizon = 3
)

// Analyzer compares a priced plan against the user's current arrangement.
// Pure computation, one plan per call.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a new savings analyzer
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{log: log.With().Str("module", "savings").Logger()}
}

// Analyze computes the savings picture for one recommended plan.
// Returned warnings describe degraded inputs, such as an unknown
// current-plan cost.
func (a *Analyzer) Analyze(plan catalog.Plan, cost pricing.CostBreakdown, current CurrentPlan) (SavingsAnalysis, []string) {
	var warnings []string

	if current.AnnualCost <= 0 {
		warnings = append(warnings,
			"current plan cost is unknown; savings figures are relative to a zero baseline")
		a.log.Warn().Str("plan_id", plan.ID).Msg("Analyzing savings without current plan cost")
	}

	annualSavings := current.AnnualCost - cost.TotalAnnualCost
	monthlySavings := annualSavings / 12

	pct := 0.0
	if current.AnnualCost > 0 {
		pct = annualSavings / current.AnnualCost * 100
	}

	switchingCost := current.EarlyTerminationFee

	analysis := SavingsAnalysis{
		AnnualSavings:      round2(annualSavings),
		MonthlySavings:     round2(monthlySavings),
		SavingsPercentage:  round2(pct),
		MonthlyBreakdown:   cost.Monthly,
		CurrentPlanTCO:     round2(current.AnnualCost),
		RecommendedPlanTCO: round2(cost.TotalAnnualCost + switchingCost),
		SwitchingCost:      switchingCost,
		BreakEvenMonths:    breakEvenMonths(switchingCost, annualSavings),
		CumulativeSavings:  round2(annualSavings),
		Uncertainty:        uncertaintyRange(cost),
		MultiYear:          multiYearOutlook(cost),
	}

	analysis.Assumptions = append(analysis.Assumptions,
		"years 2-3 assume the year-1 rate is held flat")
	if cost.Band != nil {
		analysis.Assumptions = append(analysis.Assumptions,
			"variable-rate uncertainty band carried forward unchanged across years")
	}

	return analysis, warnings
}

// breakEvenMonths is the number of months of savings needed to recover
// the switching cost. Nil means the switch never pays for itself.
func breakEvenMonths(switchingCost, annualSavings float64) *int {
	if switchingCost == 0 {
		immediate := 0
		return &immediate
	}
	if annualSavings <= 0 {
		return nil
	}
	months := int(math.Ceil(switchingCost / (annualSavings / 12)))
	return &months
}

func uncertaintyRange(cost pricing.CostBreakdown) *CostRange {
	if cost.Band == nil {
		return nil
	}
	return &CostRange{
		LowAnnual:       round2(cost.Band.LowTotal),
		ExpectedAnnual:  round2(cost.Band.ExpectedTotal),
		HighAnnual:      round2(cost.Band.HighTotal),
		ConfidenceLevel: uncertaintyConfidence,
		Note:            "variable-rate plans track market prices; actual costs may fall anywhere in this range",
	}
}

func multiYearOutlook(cost pricing.CostBreakdown) []YearProjection {
	outlook := make([]YearProjection, multiYearHorizon)
	for year := 1; year <= multiYearHorizon; year++ {
		// The connection fee is a one-off in year 1
		expected := cost.TotalAnnualCost
		if year > 1 {
			expected -= cost.ConnectionFee
		}

		low, high := expected, expected
		if cost.Band != nil {
			low = expected * (1 - cost.Band.VolatilityPct)
			high = expected * (1 + cost.Band.VolatilityPct)
		}

		outlook[year-1] = YearProjection{
			Year:         year,
			ExpectedCost: round2(expected),
			LowCost:      round2(low),
			HighCost:     round2(high),
		}
	}
	return outlook
}

// round2 rounds to 2 decimal places
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
