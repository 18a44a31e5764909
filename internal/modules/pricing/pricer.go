package pricing

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
	"github.com/wattadvisor/wattadvisor/pkg/formulas"
)

// Assumptions are the heuristic pricing constants. They are configurable
// defaults, not physical constants.
type Assumptions struct {
	DefaultPeakFraction float64 // share of usage assumed in peak hours when a TOU plan states none
	VariableBandPct     float64 // volatility band around variable-rate annual totals
	IndexedBandPct      float64 // wider band for fully indexed plans
}

// DefaultAssumptions returns the documented defaults
func DefaultAssumptions() Assumptions {
	return Assumptions{
		DefaultPeakFraction: 0.5,
		VariableBandPct:     0.10,
		IndexedBandPct:      0.15,
	}
}

// Pricer computes the annual cost of a plan under a usage projection.
// Pure computation; a malformed rate structure degrades to a fixed-rate
// estimate with a warning instead of failing the plan.
type Pricer struct {
	assumptions Assumptions
	log         zerolog.Logger
}

// NewPricer creates a new plan pricer
func NewPricer(assumptions Assumptions, log zerolog.Logger) *Pricer {
	return &Pricer{
		assumptions: assumptions,
		log:         log.With().Str("module", "pricing").Logger(),
	}
}

// Price computes the cost breakdown for one plan against a 12-month
// kWh projection. Returned warnings describe any degraded handling.
func (p *Pricer) Price(plan catalog.Plan, monthlyKWh []float64) (CostBreakdown, []string) {
	var warnings []string

	baseCosts := make([]float64, len(monthlyKWh))

	if err := plan.Rate.Validate(); err != nil {
		// Unknown or malformed structure: fall back to the stated average rate
		fallback := plan.Rate.EstimatedAvgRate()
		warnings = append(warnings, fmt.Sprintf(
			"plan %s has an unrecognized rate structure; estimated at a flat %.4f/kWh", plan.ID, fallback))
		p.log.Warn().Err(err).Str("plan_id", plan.ID).Msg("Falling back to flat-rate estimate")
		for m, kwh := range monthlyKWh {
			baseCosts[m] = kwh * fallback
		}
		return p.assemble(plan, monthlyKWh, baseCosts, plan.Rate.Type, nil), warnings
	}

	var band *CostBand

	switch plan.Rate.Type {
	case catalog.RateTypeFixed:
		for m, kwh := range monthlyKWh {
			baseCosts[m] = kwh * plan.Rate.Fixed.RatePerKWh
		}

	case catalog.RateTypeTiered:
		tiers := plan.Rate.Tiered.SortedTiers()
		for m, kwh := range monthlyKWh {
			baseCosts[m] = tieredMonthCost(kwh, tiers)
		}

	case catalog.RateTypeTimeOfUse:
		tou := plan.Rate.TimeOfUse
		fraction := p.assumptions.DefaultPeakFraction
		if tou.PeakFraction != nil {
			fraction = *tou.PeakFraction
		}
		for m, kwh := range monthlyKWh {
			baseCosts[m] = kwh*fraction*tou.PeakRate + kwh*(1-fraction)*tou.OffPeakRate
		}

	case catalog.RateTypeVariable, catalog.RateTypeIndexed:
		rate := plan.Rate.Variable.HistoricalAvgRate
		for m, kwh := range monthlyKWh {
			baseCosts[m] = kwh * rate
		}
		pct := p.assumptions.VariableBandPct
		if plan.Rate.Type == catalog.RateTypeIndexed {
			pct = p.assumptions.IndexedBandPct
		}
		band = &CostBand{VolatilityPct: pct}
	}

	return p.assemble(plan, monthlyKWh, baseCosts, plan.Rate.Type, band), warnings
}

// tieredMonthCost consumes one month's usage bracket by bracket.
// Brackets must already be sorted ascending with the open-ended one last.
func tieredMonthCost(kwh float64, tiers []catalog.TierBracket) float64 {
	cost := 0.0
	remaining := kwh
	consumed := 0.0

	for _, tier := range tiers {
		if remaining <= 0 {
			break
		}

		if tier.MaxKWh == 0 {
			// Open-ended top bracket takes whatever is left
			cost += remaining * tier.Rate
			remaining = 0
			break
		}

		capacity := tier.MaxKWh - consumed
		if capacity <= 0 {
			continue
		}

		chunk := remaining
		if chunk > capacity {
			chunk = capacity
		}
		cost += chunk * tier.Rate
		consumed += chunk
		remaining -= chunk
	}

	// No open-ended bracket: residual usage billed at the top rate
	if remaining > 0 && len(tiers) > 0 {
		cost += remaining * tiers[len(tiers)-1].Rate
	}

	return cost
}

// assemble applies fees and totals to per-month base costs
func (p *Pricer) assemble(plan catalog.Plan, monthlyKWh, baseCosts []float64, rateType catalog.RateType, band *CostBand) CostBreakdown {
	monthly := make([]MonthlyCost, len(baseCosts))
	for m := range baseCosts {
		cost := baseCosts[m] + plan.MonthlyFee
		if m == 0 {
			cost += plan.ConnectionFee
		}
		monthly[m] = MonthlyCost{KWh: monthlyKWh[m], Cost: cost}
	}

	baseTotal := formulas.Sum(baseCosts)
	annualFees := plan.MonthlyFee * float64(len(baseCosts))
	total := baseTotal + annualFees + plan.ConnectionFee

	totalKWh := formulas.Sum(monthlyKWh)
	avgRate := 0.0
	if totalKWh > 0 {
		avgRate = baseTotal / totalKWh
	}

	if band != nil {
		band.ExpectedTotal = total
		band.LowTotal = total * (1 - band.VolatilityPct)
		band.HighTotal = total * (1 + band.VolatilityPct)
	}

	return CostBreakdown{
		BaseCost:        baseTotal,
		MonthlyFees:     annualFees,
		ConnectionFee:   plan.ConnectionFee,
		TotalAnnualCost: total,
		RateType:        rateType,
		AvgRatePerKWh:   avgRate,
		Monthly:         monthly,
		Band:            band,
	}
}
