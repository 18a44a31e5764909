package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/modules/risk"
	"github.com/wattadvisor/wattadvisor/internal/modules/savings"
	"github.com/wattadvisor/wattadvisor/internal/modules/scoring"
)

const closingClause = "Review again when your usage pattern or the plan catalog changes."

// Advisor turns the savings and risk picture for the top-ranked plan
// into a should-stay verdict. Evaluated for the best candidate only.
type Advisor struct {
	thresholds Thresholds
	log        zerolog.Logger
}

// NewAdvisor creates an advisor with the given trigger thresholds
func NewAdvisor(thresholds Thresholds, log zerolog.Logger) *Advisor {
	return &Advisor{
		thresholds: thresholds,
		log:        log.With().Str("module", "advisor").Logger(),
	}
}

// Advise evaluates the five stay triggers against the top-ranked plan.
// Any firing trigger means the user is better off staying put.
func (a *Advisor) Advise(top scoring.RankedPlan, analysis savings.SavingsAnalysis, warnings []risk.RiskWarning, current savings.CurrentPlan) StayRecommendation {
	netSavings := analysis.AnnualSavings - analysis.SwitchingCost
	criticalCount := risk.CountBySeverity(warnings, risk.SeverityCritical)

	var triggers []Trigger
	var sentences []string

	if netSavings < a.thresholds.MinNetSavings {
		triggers = append(triggers, TriggerLowNetSavings)
		sentences = append(sentences, fmt.Sprintf(
			"After the %.2f termination fee, switching nets only %.2f in the first year.",
			analysis.SwitchingCost, netSavings))
	}

	if analysis.BreakEvenMonths != nil && *analysis.BreakEvenMonths > a.thresholds.BreakEvenMonths {
		triggers = append(triggers, TriggerLongBreakEven)
		sentences = append(sentences, fmt.Sprintf(
			"The switching cost takes %d months to recover.", *analysis.BreakEvenMonths))
	}

	if criticalCount >= a.thresholds.CriticalRiskCount {
		triggers = append(triggers, TriggerCriticalRisks)
		sentences = append(sentences, fmt.Sprintf(
			"The recommended plan carries %d critical risk warnings.", criticalCount))
	}

	if analysis.SavingsPercentage < a.thresholds.OptimalSavingsPct &&
		analysis.AnnualSavings < a.thresholds.OptimalSavingsAnnual {
		triggers = append(triggers, TriggerCurrentPlanOptimal)
		sentences = append(sentences,
			"Your current plan is already close to the best available price.")
	}

	if current.ContractEndsInDays != nil &&
		*current.ContractEndsInDays <= a.thresholds.ContractEndWindowDays &&
		top.Plan.EarlyTerminationFee > a.thresholds.CandidateETF {
		triggers = append(triggers, TriggerContractEndingSoon)
		sentences = append(sentences, fmt.Sprintf(
			"Your current contract ends in %d days; waiting avoids committing to a plan with a %.2f termination fee.",
			*current.ContractEndsInDays, top.Plan.EarlyTerminationFee))
	}

	shouldStay := len(triggers) > 0

	var reasoning string
	if shouldStay {
		reasoning = strings.Join(sentences, " ") + " " + closingClause
	} else {
		reasoning = fmt.Sprintf(
			"Switching to %s saves an estimated %.2f per year with no blocking concerns. %s",
			top.Plan.Name, analysis.AnnualSavings, closingClause)
	}

	recommendation := StayRecommendation{
		ShouldStay: shouldStay,
		Triggers:   triggers,
		Reasoning:  reasoning,
		Confidence: a.confidence(triggers, criticalCount),
		Evidence: Evidence{
			NetSavings:        round2(netSavings),
			BreakEvenMonths:   analysis.BreakEvenMonths,
			CriticalRiskCount: criticalCount,
		},
	}

	a.log.Debug().
		Bool("should_stay", shouldStay).
		Int("triggers", len(triggers)).
		Str("plan_id", top.Plan.ID).
		Msg("Stay verdict computed")
	return recommendation
}

// confidence grows with the number of fired triggers and with critical
// risk evidence, capped at 1.0. A clean switch verdict gets a fixed
// moderate confidence.
func (a *Advisor) confidence(triggers []Trigger, criticalCount int) float64 {
	if len(triggers) == 0 {
		return 0.7
	}
	c := 0.3 + 0.25*float64(len(triggers)) + 0.1*float64(criticalCount)
	return round2(math.Min(1.0, c))
}

// round2 rounds to 2 decimal places
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
