package advisor

// Trigger identifies one reason to stay on the current plan.
// Closed enum; triggers are reported in this priority order.
type Trigger string

const (
	TriggerLowNetSavings      Trigger = "low_net_savings"
	TriggerLongBreakEven      Trigger = "long_break_even"
	TriggerCriticalRisks      Trigger = "critical_risks"
	TriggerCurrentPlanOptimal Trigger = "current_plan_optimal"
	TriggerContractEndingSoon Trigger = "contract_ending_soon"
)

// Evidence is the numeric basis of a stay verdict, reported alongside
// the reasoning so callers can render it.
type Evidence struct {
	NetSavings        float64 `json:"net_savings"`
	BreakEvenMonths   *int    `json:"break_even_months"`
	CriticalRiskCount int     `json:"critical_risk_count"`
}

// StayRecommendation is the advisory verdict for the top-ranked plan
type StayRecommendation struct {
	ShouldStay bool      `json:"should_stay"`
	Triggers   []Trigger `json:"triggers"`
	Reasoning  string    `json:"reasoning"`
	Confidence float64   `json:"confidence"`
	Evidence   Evidence  `json:"evidence"`
}

// Thresholds are the stay-trigger boundaries, overridable for tests and
// deployments like the risk rule thresholds.
type Thresholds struct {
	MinNetSavings         float64 `toml:"min_net_savings"`
	BreakEvenMonths       int     `toml:"break_even_months"`
	CriticalRiskCount     int     `toml:"critical_risk_count"`
	OptimalSavingsPct     float64 `toml:"optimal_savings_pct"`
	OptimalSavingsAnnual  float64 `toml:"optimal_savings_annual"`
	ContractEndWindowDays int     `toml:"contract_end_window_days"`
	CandidateETF          float64 `toml:"candidate_etf"`
}

// DefaultThresholds returns the documented trigger boundaries
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinNetSavings:         100,
		BreakEvenMonths:       24,
		CriticalRiskCount:     2,
		OptimalSavingsPct:     2,
		OptimalSavingsAnnual:  100,
		ContractEndWindowDays: 30,
		CandidateETF:          150,
	}
}
