package savings

import "github.com/wattadvisor/wattadvisor/internal/modules/pricing"

// CurrentPlan is what the caller knows about the user's existing supply
// arrangement. AnnualCost 0 means unknown; the analysis then degrades
// with a warning instead of failing.
type CurrentPlan struct {
	Name                string  `json:"name,omitempty"`
	AnnualCost          float64 `json:"annual_cost"`
	EarlyTerminationFee float64 `json:"early_termination_fee"`
	ContractEndsInDays  *int    `json:"contract_ends_in_days,omitempty"`
}

// CostRange is the uncertainty range attached when the recommended plan
// carries a variable or indexed rate.
type CostRange struct {
	LowAnnual       float64 `json:"low_annual"`
	ExpectedAnnual  float64 `json:"expected_annual"`
	HighAnnual      float64 `json:"high_annual"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Note            string  `json:"note"`
}

// YearProjection is one year of the multi-year cost outlook.
// Low and High equal Expected for plans without rate volatility.
type YearProjection struct {
	Year         int     `json:"year"`
	ExpectedCost float64 `json:"expected_cost"`
	LowCost      float64 `json:"low_cost"`
	HighCost     float64 `json:"high_cost"`
}

// SavingsAnalysis compares one recommended plan against the user's
// current arrangement. All figures are signed; negative savings mean the
// recommended plan costs more.
type SavingsAnalysis struct {
	AnnualSavings      float64               `json:"annual_savings"`
	MonthlySavings     float64               `json:"monthly_savings"`
	SavingsPercentage  float64               `json:"savings_percentage"`
	MonthlyBreakdown   []pricing.MonthlyCost `json:"monthly_breakdown"`
	CurrentPlanTCO     float64               `json:"current_plan_tco"`
	RecommendedPlanTCO float64               `json:"recommended_plan_tco"`
	SwitchingCost      float64               `json:"switching_cost"`
	BreakEvenMonths    *int                  `json:"break_even_months"`
	CumulativeSavings  float64               `json:"cumulative_12mo_savings"`
	Uncertainty        *CostRange            `json:"uncertainty,omitempty"`
	MultiYear          []YearProjection      `json:"multi_year"`
	Assumptions        []string              `json:"assumptions"`
}
