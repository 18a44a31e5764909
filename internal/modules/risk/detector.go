package risk

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/internal/modules/savings"
	"github.com/wattadvisor/wattadvisor/internal/modules/scoring"
	"github.com/wattadvisor/wattadvisor/internal/modules/usage"
)

// Detector evaluates the rule set against one ranked plan.
// Every rule is pure and order-independent; each fires at most once.
type Detector struct {
	thresholds Thresholds
	log        zerolog.Logger
}

// NewDetector creates a detector with the given thresholds
func NewDetector(thresholds Thresholds, log zerolog.Logger) *Detector {
	return &Detector{
		thresholds: thresholds,
		log:        log.With().Str("module", "risk").Logger(),
	}
}

type rule func(scoring.RankedPlan, savings.SavingsAnalysis, usage.UsageProfile, domain.UserPreferences) *RiskWarning

// Detect runs every rule against the plan and returns the warnings in
// a fixed rule order. A clean plan returns an empty slice, not nil.
func (d *Detector) Detect(plan scoring.RankedPlan, analysis savings.SavingsAnalysis, profile usage.UsageProfile, prefs domain.UserPreferences) []RiskWarning {
	rules := []rule{
		d.highETF,
		d.lowSavings,
		d.dataQuality,
		d.variableVolatility,
		d.contractMismatch,
		d.supplierReliability,
		d.longBreakEven,
		d.negativeSavings,
		d.highUpfrontCost,
	}

	warnings := make([]RiskWarning, 0)
	for _, r := range rules {
		if w := r(plan, analysis, profile, prefs); w != nil {
			warnings = append(warnings, *w)
		}
	}

	d.log.Debug().
		Str("plan_id", plan.Plan.ID).
		Int("warnings", len(warnings)).
		Msg("Risk rules evaluated")
	return warnings
}

func (d *Detector) highETF(plan scoring.RankedPlan, _ savings.SavingsAnalysis, _ usage.UsageProfile, _ domain.UserPreferences) *RiskWarning {
	etf := plan.Plan.EarlyTerminationFee

	severity := Severity("")
	switch {
	case etf >= d.thresholds.ETFCritical:
		severity = SeverityCritical
	case etf >= d.thresholds.ETFWarning:
		severity = SeverityWarning
	default:
		return nil
	}

	return &RiskWarning{
		Type:       RiskHighETF,
		Severity:   severity,
		Category:   CategoryContract,
		Title:      "High early termination fee",
		Message:    fmt.Sprintf("Leaving this plan before the contract ends costs %.2f.", etf),
		Mitigation: "Confirm you can commit to the full contract term before switching.",
	}
}

func (d *Detector) lowSavings(_ scoring.RankedPlan, analysis savings.SavingsAnalysis, _ usage.UsageProfile, _ domain.UserPreferences) *RiskWarning {
	if analysis.SavingsPercentage >= d.thresholds.LowSavingsPct {
		return nil
	}

	severity := SeverityInfo
	if analysis.AnnualSavings < d.thresholds.LowSavingsAnnual {
		severity = SeverityWarning
	}

	return &RiskWarning{
		Type:     RiskLowSavings,
		Severity: severity,
		Category: CategoryFinancial,
		Title:    "Low projected savings",
		Message: fmt.Sprintf("Projected savings are %.2f per year (%.1f%%), which may not justify switching.",
			analysis.AnnualSavings, analysis.SavingsPercentage),
	}
}

func (d *Detector) dataQuality(_ scoring.RankedPlan, _ savings.SavingsAnalysis, profile usage.UsageProfile, _ domain.UserPreferences) *RiskWarning {
	confidence := profile.OverallConfidence
	completeness := profile.DataQuality.CompletenessPct

	severity := Severity("")
	switch {
	case confidence < d.thresholds.ConfidenceCritical:
		severity = SeverityCritical
	case confidence < d.thresholds.ConfidenceWarning || completeness < d.thresholds.CompletenessWarningPct:
		severity = SeverityWarning
	default:
		return nil
	}

	return &RiskWarning{
		Type:     RiskDataQuality,
		Severity: severity,
		Category: CategoryData,
		Message: fmt.Sprintf("Usage analysis confidence is %.2f with %.0f%% data completeness; cost projections may be off.",
			confidence, completeness),
		Title:      "Limited usage history",
		Mitigation: "Provide more months of usage history for a firmer projection.",
	}
}

func (d *Detector) variableVolatility(plan scoring.RankedPlan, _ savings.SavingsAnalysis, _ usage.UsageProfile, _ domain.UserPreferences) *RiskWarning {
	if !plan.Plan.Rate.IsVariable() {
		return nil
	}

	return &RiskWarning{
		Type:       RiskVariableVolatility,
		Severity:   SeverityWarning,
		Category:   CategoryFinancial,
		Title:      "Variable rate exposure",
		Message:    "This plan tracks market prices; your actual cost can move above the projection.",
		Mitigation: "Consider a fixed-rate plan if budget predictability matters to you.",
	}
}

func (d *Detector) contractMismatch(plan scoring.RankedPlan, _ savings.SavingsAnalysis, _ usage.UsageProfile, prefs domain.UserPreferences) *RiskWarning {
	if plan.Plan.ContractLengthMonths <= d.thresholds.ContractMismatchMonths {
		return nil
	}
	if prefs.FlexibilityWeight <= d.thresholds.FlexibilityPriorityWeight {
		return nil
	}

	return &RiskWarning{
		Type:     RiskContractMismatch,
		Severity: SeverityWarning,
		Category: CategoryContract,
		Title:    "Long contract despite flexibility preference",
		Message: fmt.Sprintf("You weight flexibility at %d%% but this plan locks you in for %d months.",
			prefs.FlexibilityWeight, plan.Plan.ContractLengthMonths),
	}
}

func (d *Detector) supplierReliability(plan scoring.RankedPlan, _ savings.SavingsAnalysis, _ usage.UsageProfile, _ domain.UserPreferences) *RiskWarning {
	// No-op when the catalog carries no rating for this supplier
	if plan.Plan.SupplierRating == nil {
		return nil
	}
	rating := *plan.Plan.SupplierRating

	severity := Severity("")
	switch {
	case rating < d.thresholds.RatingCritical:
		severity = SeverityCritical
	case rating < d.thresholds.RatingWarning:
		severity = SeverityWarning
	default:
		return nil
	}

	return &RiskWarning{
		Type:     RiskSupplierReliability,
		Severity: severity,
		Category: CategorySupplier,
		Title:    "Low supplier rating",
		Message:  fmt.Sprintf("%s is rated %.1f out of 5 by its customers.", plan.Plan.Supplier, rating),
	}
}

func (d *Detector) longBreakEven(_ scoring.RankedPlan, analysis savings.SavingsAnalysis, _ usage.UsageProfile, _ domain.UserPreferences) *RiskWarning {
	if analysis.BreakEvenMonths == nil {
		return nil
	}
	months := *analysis.BreakEvenMonths

	severity := Severity("")
	switch {
	case months > d.thresholds.BreakEvenCriticalMonths:
		severity = SeverityCritical
	case months > d.thresholds.BreakEvenWarningMonths:
		severity = SeverityWarning
	default:
		return nil
	}

	return &RiskWarning{
		Type:     RiskLongBreakEven,
		Severity: severity,
		Category: CategoryFinancial,
		Title:    "Slow payback on switching cost",
		Message:  fmt.Sprintf("It takes %d months of savings to recover the switching cost.", months),
	}
}

func (d *Detector) negativeSavings(_ scoring.RankedPlan, analysis savings.SavingsAnalysis, _ usage.UsageProfile, _ domain.UserPreferences) *RiskWarning {
	if analysis.AnnualSavings >= 0 {
		return nil
	}

	return &RiskWarning{
		Type:     RiskNegativeSavings,
		Severity: SeverityCritical,
		Category: CategoryFinancial,
		Title:    "Costs more than your current plan",
		Message: fmt.Sprintf("Switching would cost you an extra %.2f per year.",
			-analysis.AnnualSavings),
	}
}

func (d *Detector) highUpfrontCost(plan scoring.RankedPlan, _ savings.SavingsAnalysis, _ usage.UsageProfile, _ domain.UserPreferences) *RiskWarning {
	upfront := plan.Plan.ConnectionFee + plan.Plan.MonthlyFee
	if upfront <= d.thresholds.HighUpfrontCost {
		return nil
	}

	return &RiskWarning{
		Type:     RiskHighUpfrontCost,
		Severity: SeverityInfo,
		Category: CategoryFinancial,
		Title:    "Notable upfront cost",
		Message: fmt.Sprintf("First-month charges total %.2f in connection and standing fees.",
			upfront),
	}
}
