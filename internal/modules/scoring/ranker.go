package scoring

import (
	"sort"

	"github.com/rs/zerolog"
)

// Ranker orders scored plans and truncates to the requested count.
// Ordering is total: composite descending, then cheaper annual cost,
// then higher renewable share, then plan id, so identical inputs always
// produce the identical ranking.
type Ranker struct {
	log zerolog.Logger
}

// NewRanker creates a new ranker
func NewRanker(log zerolog.Logger) *Ranker {
	return &Ranker{log: log.With().Str("module", "scoring").Logger()}
}

// Rank sorts the scored plans and returns at most topN ranked plans.
// topN <= 0 falls back to DefaultTopN. A short batch returns fewer
// entries, never placeholders.
func (r *Ranker) Rank(scored []ScoredPlan, topN int) []RankedPlan {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ordered := make([]ScoredPlan, len(scored))
	copy(ordered, scored)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Composite != ordered[j].Composite {
			return ordered[i].Composite > ordered[j].Composite
		}
		if ordered[i].Cost.TotalAnnualCost != ordered[j].Cost.TotalAnnualCost {
			return ordered[i].Cost.TotalAnnualCost < ordered[j].Cost.TotalAnnualCost
		}
		if ordered[i].Plan.RenewablePercentage != ordered[j].Plan.RenewablePercentage {
			return ordered[i].Plan.RenewablePercentage > ordered[j].Plan.RenewablePercentage
		}
		return ordered[i].Plan.ID < ordered[j].Plan.ID
	})

	if len(ordered) > topN {
		ordered = ordered[:topN]
	}

	ranked := make([]RankedPlan, len(ordered))
	for i, plan := range ordered {
		ranked[i] = RankedPlan{ScoredPlan: plan, Rank: i + 1}
	}

	r.log.Debug().Int("ranked", len(ranked)).Msg("Ranked candidate plans")
	return ranked
}
