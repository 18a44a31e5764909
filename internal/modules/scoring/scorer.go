package scoring

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/domain"
)

// Scorer converts priced candidates into factor scores and a weighted
// composite. The cost score is normalized against the whole batch, so a
// plan's scores are only meaningful within the request that produced them.
type Scorer struct {
	log zerolog.Logger
}

// NewScorer creates a new plan scorer
func NewScorer(log zerolog.Logger) *Scorer {
	return &Scorer{log: log.With().Str("module", "scoring").Logger()}
}

// ScoreBatch scores every candidate against the batch and the user's
// weights. Preferences must already be validated; weights sum to 100.
func (s *Scorer) ScoreBatch(candidates []Candidate, prefs domain.UserPreferences) []ScoredPlan {
	if len(candidates) == 0 {
		return nil
	}

	minCost, maxCost := costSpread(candidates)

	scored := make([]ScoredPlan, len(candidates))
	for i, c := range candidates {
		scores := FactorScores{
			Cost:        costScore(c.Cost.TotalAnnualCost, minCost, maxCost),
			Flexibility: flexibilityScore(c.Plan.ContractLengthMonths, c.Plan.EarlyTerminationFee),
			Renewable:   clampScore(c.Plan.RenewablePercentage),
			Rating:      ratingScore(c.Plan.SupplierRating),
		}

		composite := scores.Cost*float64(prefs.CostWeight)/100 +
			scores.Flexibility*float64(prefs.FlexibilityWeight)/100 +
			scores.Renewable*float64(prefs.RenewableWeight)/100 +
			scores.Rating*float64(prefs.RatingWeight)/100

		scored[i] = ScoredPlan{
			Plan:      c.Plan,
			Cost:      c.Cost,
			Scores:    scores,
			Composite: round2(clampScore(composite)),
		}
	}

	s.log.Debug().Int("candidates", len(candidates)).Msg("Scored candidate batch")
	return scored
}

func costSpread(candidates []Candidate) (float64, float64) {
	minCost := candidates[0].Cost.TotalAnnualCost
	maxCost := minCost
	for _, c := range candidates[1:] {
		cost := c.Cost.TotalAnnualCost
		if cost < minCost {
			minCost = cost
		}
		if cost > maxCost {
			maxCost = cost
		}
	}
	return minCost, maxCost
}

// costScore linearly normalizes against the batch spread, cheapest plan
// scoring 100. A single-cost batch scores everyone 100.
func costScore(cost, minCost, maxCost float64) float64 {
	if maxCost == minCost {
		return ScoreMax
	}
	return round2((maxCost - cost) / (maxCost - minCost) * ScoreMax)
}

// flexibilityScore decreases monotonically with contract length and is
// further reduced by the early termination fee.
func flexibilityScore(contractMonths int, etf float64) float64 {
	months := math.Min(float64(contractMonths), MaxPenalizedContractMonths)
	base := ScoreMax * (1 - months/MaxPenalizedContractMonths)

	penalty := math.Min(etf*ETFPenaltyPerUnit, ETFPenaltyCap)

	return round2(clampScore(base - penalty))
}

// ratingScore rescales the native 0-5 rating to 0-100.
// Plans without a rating get a neutral midpoint, not zero.
func ratingScore(rating *float64) float64 {
	if rating == nil {
		return NeutralRatingScore
	}
	return round2(clampScore(*rating / RatingScaleMax * ScoreMax))
}

func clampScore(v float64) float64 {
	return math.Max(ScoreMin, math.Min(ScoreMax, v))
}

// round2 rounds to 2 decimal places
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
