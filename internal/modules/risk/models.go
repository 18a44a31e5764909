package risk

// RiskType identifies which rule produced a warning.
// Closed enum: one value per rule, each rule fires at most once per plan.
type RiskType string

const (
	RiskHighETF             RiskType = "high_etf"
	RiskLowSavings          RiskType = "low_savings"
	RiskDataQuality         RiskType = "data_quality"
	RiskVariableVolatility  RiskType = "variable_volatility"
	RiskContractMismatch    RiskType = "contract_mismatch"
	RiskSupplierReliability RiskType = "supplier_reliability"
	RiskLongBreakEven       RiskType = "long_break_even"
	RiskNegativeSavings     RiskType = "negative_savings"
	RiskHighUpfrontCost     RiskType = "high_upfront_cost"
)

// Severity grades how seriously a warning should be taken
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Risk categories used for grouping warnings in output
const (
	CategoryFinancial = "financial"
	CategoryContract  = "contract"
	CategoryData      = "data"
	CategorySupplier  = "supplier"
)

// RiskWarning is one rule firing against one plan
type RiskWarning struct {
	Type       RiskType `json:"risk_type"`
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Mitigation string   `json:"mitigation,omitempty"`
}

// CountBySeverity tallies warnings at the given severity
func CountBySeverity(warnings []RiskWarning, severity Severity) int {
	count := 0
	for _, w := range warnings {
		if w.Severity == severity {
			count++
		}
	}
	return count
}
