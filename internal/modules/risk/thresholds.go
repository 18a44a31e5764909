package risk

// Thresholds centralizes every rule boundary so tests and deployments
// can override them without touching rule logic. Fee and savings
// boundaries are inclusive: a value exactly at the threshold fires the
// higher severity.
type Thresholds struct {
	ETFCritical float64 `toml:"etf_critical"`
	ETFWarning  float64 `toml:"etf_warning"`

	LowSavingsAnnual float64 `toml:"low_savings_annual"`
	LowSavingsPct    float64 `toml:"low_savings_pct"`

	ConfidenceCritical     float64 `toml:"confidence_critical"`
	ConfidenceWarning      float64 `toml:"confidence_warning"`
	CompletenessWarningPct float64 `toml:"completeness_warning_pct"`

	ContractMismatchMonths    int `toml:"contract_mismatch_months"`
	FlexibilityPriorityWeight int `toml:"flexibility_priority_weight"`

	RatingCritical float64 `toml:"rating_critical"`
	RatingWarning  float64 `toml:"rating_warning"`

	BreakEvenCriticalMonths int `toml:"break_even_critical_months"`
	BreakEvenWarningMonths  int `toml:"break_even_warning_months"`

	HighUpfrontCost float64 `toml:"high_upfront_cost"`
}

// DefaultThresholds returns the documented rule boundaries
func DefaultThresholds() Thresholds {
	return Thresholds{
		ETFCritical:               300,
		ETFWarning:                150,
		LowSavingsAnnual:          100,
		LowSavingsPct:             5,
		ConfidenceCritical:        0.5,
		ConfidenceWarning:         0.7,
		CompletenessWarningPct:    80,
		ContractMismatchMonths:    12,
		FlexibilityPriorityWeight: 30,
		RatingCritical:            2.5,
		RatingWarning:             3.5,
		BreakEvenCriticalMonths:   24,
		BreakEvenWarningMonths:    18,
		HighUpfrontCost:           100,
	}
}
