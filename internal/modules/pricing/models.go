package pricing

import "github.com/wattadvisor/wattadvisor/internal/modules/catalog"

// MonthlyCost pairs one projected month's consumption with its cost
// under the priced plan. Fees are included; the connection fee lands in
// the first month only.
type MonthlyCost struct {
	KWh  float64 `json:"kwh"`
	Cost float64 `json:"cost"`
}

// CostBand is the volatility band around a variable-rate annual total
type CostBand struct {
	LowTotal      float64 `json:"low_total"`
	ExpectedTotal float64 `json:"expected_total"`
	HighTotal     float64 `json:"high_total"`
	VolatilityPct float64 `json:"volatility_pct"`
}

// CostBreakdown is the annual cost of one plan under one usage
// projection. Derived once, never mutated.
type CostBreakdown struct {
	BaseCost        float64          `json:"base_cost"`
	MonthlyFees     float64          `json:"monthly_fees"`
	ConnectionFee   float64          `json:"connection_fee"`
	TotalAnnualCost float64          `json:"total_annual_cost"`
	RateType        catalog.RateType `json:"rate_type"`
	AvgRatePerKWh   float64          `json:"avg_rate_per_kwh"`
	Monthly         []MonthlyCost    `json:"monthly"`
	Band            *CostBand        `json:"band,omitempty"`
}
