package recommendation

import (
	"time"

	"github.com/wattadvisor/wattadvisor/internal/clients/explainer"
	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/internal/modules/advisor"
	"github.com/wattadvisor/wattadvisor/internal/modules/risk"
	"github.com/wattadvisor/wattadvisor/internal/modules/savings"
	"github.com/wattadvisor/wattadvisor/internal/modules/scoring"
	"github.com/wattadvisor/wattadvisor/internal/modules/usage"
)

// Request is one recommendation run for one user against the current
// catalog snapshot.
type Request struct {
	UserID          string                 `json:"user_id"`
	Region          string                 `json:"region,omitempty"`
	Preferences     domain.UserPreferences `json:"preferences"`
	CurrentPlan     savings.CurrentPlan    `json:"current_plan"`
	RegionalAvgKWh  float64                `json:"regional_avg_kwh,omitempty"`
	TopN            int                    `json:"top_n,omitempty"`
	ForceRegenerate bool                   `json:"force_regenerate,omitempty"`
}

// PlanRecommendation is one ranked plan with its full analysis
type PlanRecommendation struct {
	scoring.RankedPlan
	Savings     savings.SavingsAnalysis `json:"savings"`
	Risks       []risk.RiskWarning      `json:"risks"`
	Explanation *explainer.Explanation  `json:"explanation,omitempty"`
}

// Result is the aggregate output of one recommendation run
type Result struct {
	UUID        string                      `json:"uuid"`
	UserID      string                      `json:"user_id"`
	Fingerprint string                      `json:"fingerprint"`
	Profile     usage.UsageProfile          `json:"profile"`
	Plans       []PlanRecommendation        `json:"plans"`
	Stay        *advisor.StayRecommendation `json:"stay,omitempty"`
	Warnings    []string                    `json:"warnings"`
	GeneratedAt time.Time                   `json:"generated_at"`
}
