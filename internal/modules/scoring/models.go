package scoring

import (
	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
	"github.com/wattadvisor/wattadvisor/internal/modules/pricing"
)

// Candidate is one plan with its priced cost, ready for scoring
type Candidate struct {
	Plan catalog.Plan
	Cost pricing.CostBreakdown
}

// FactorScores are the four independent 0-100 scores per plan.
// Cost is batch-relative; the other three depend only on the plan itself.
type FactorScores struct {
	Cost        float64 `json:"cost"`
	Flexibility float64 `json:"flexibility"`
	Renewable   float64 `json:"renewable"`
	Rating      float64 `json:"rating"`
}

// ScoredPlan is a candidate with its factor scores and weighted composite
type ScoredPlan struct {
	Plan      catalog.Plan           `json:"plan"`
	Cost      pricing.CostBreakdown  `json:"cost"`
	Scores    FactorScores           `json:"scores"`
	Composite float64                `json:"composite_score"`
}

// RankedPlan is a scored plan with its final position, 1 = best
type RankedPlan struct {
	ScoredPlan
	Rank int `json:"rank"`
}
