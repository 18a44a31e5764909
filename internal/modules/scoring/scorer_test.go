package scoring

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
	"github.com/wattadvisor/wattadvisor/internal/modules/pricing"
)

func candidate(id string, annualCost float64) Candidate {
	return Candidate{
		Plan: catalog.Plan{
			ID:       id,
			Name:     "Plan " + id,
			Supplier: "Supplier " + id,
			Rate: catalog.RateStructure{
				Type:  catalog.RateTypeFixed,
				Fixed: &catalog.FixedRate{RatePerKWh: 0.15},
			},
			Active: true,
		},
		Cost: pricing.CostBreakdown{TotalAnnualCost: annualCost, RateType: catalog.RateTypeFixed},
	}
}

func TestScoreBatch_CostNormalization(t *testing.T) {
	s := NewScorer(zerolog.Nop())

	scored := s.ScoreBatch([]Candidate{
		candidate("a", 1200),
		candidate("b", 1500),
		candidate("c", 1800),
	}, domain.DefaultPreferences())

	require.Len(t, scored, 3)
	assert.Equal(t, 100.0, scored[0].Scores.Cost)
	assert.Equal(t, 50.0, scored[1].Scores.Cost)
	assert.Equal(t, 0.0, scored[2].Scores.Cost)
}

func TestScoreBatch_EqualCostsAllScoreTop(t *testing.T) {
	s := NewScorer(zerolog.Nop())

	scored := s.ScoreBatch([]Candidate{
		candidate("a", 1500),
		candidate("b", 1500),
	}, domain.DefaultPreferences())

	assert.Equal(t, 100.0, scored[0].Scores.Cost)
	assert.Equal(t, 100.0, scored[1].Scores.Cost)
}

func TestFlexibilityScore(t *testing.T) {
	tests := []struct {
		name           string
		contractMonths int
		etf            float64
		expected       float64
	}{
		{"month to month", 0, 0, 100},
		{"one year no fee", 12, 0, 66.67},
		{"one year with fee", 12, 150, 51.67},
		{"long contract", 36, 0, 0},
		{"fee penalty capped", 24, 500, 3.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, flexibilityScore(tt.contractMonths, tt.etf), 0.01)
		})
	}
}

func TestFlexibilityScore_MonotoneInContractLength(t *testing.T) {
	prev := flexibilityScore(0, 0)
	for months := 1; months <= 40; months++ {
		score := flexibilityScore(months, 0)
		assert.LessOrEqual(t, score, prev, "months=%d", months)
		prev = score
	}
}

func TestRatingScore(t *testing.T) {
	rating := 4.5
	assert.Equal(t, 90.0, ratingScore(&rating))

	low := 1.0
	assert.Equal(t, 20.0, ratingScore(&low))

	// Missing rating is neutral, not zero
	assert.Equal(t, NeutralRatingScore, ratingScore(nil))
}

func TestScoreBatch_RenewablePassThrough(t *testing.T) {
	s := NewScorer(zerolog.Nop())

	c := candidate("a", 1500)
	c.Plan.RenewablePercentage = 85

	scored := s.ScoreBatch([]Candidate{c}, domain.DefaultPreferences())
	assert.Equal(t, 85.0, scored[0].Scores.Renewable)
}

func TestScoreBatch_CompositeIsConvexCombination(t *testing.T) {
	s := NewScorer(zerolog.Nop())

	rating := 3.8
	c := candidate("a", 1500)
	c.Plan.ContractLengthMonths = 12
	c.Plan.EarlyTerminationFee = 120
	c.Plan.RenewablePercentage = 60
	c.Plan.SupplierRating = &rating

	other := candidate("b", 1900)

	prefs := domain.UserPreferences{CostWeight: 55, FlexibilityWeight: 15, RenewableWeight: 20, RatingWeight: 10}
	require.NoError(t, prefs.Validate())

	scored := s.ScoreBatch([]Candidate{c, other}, prefs)

	for _, sp := range scored {
		lo := min4(sp.Scores.Cost, sp.Scores.Flexibility, sp.Scores.Renewable, sp.Scores.Rating)
		hi := max4(sp.Scores.Cost, sp.Scores.Flexibility, sp.Scores.Renewable, sp.Scores.Rating)
		assert.GreaterOrEqual(t, sp.Composite, lo-0.01)
		assert.LessOrEqual(t, sp.Composite, hi+0.01)
	}
}

func TestScoreBatch_EmptyBatch(t *testing.T) {
	s := NewScorer(zerolog.Nop())
	assert.Nil(t, s.ScoreBatch(nil, domain.DefaultPreferences()))
}

func min4(a, b, c, d float64) float64 {
	m := a
	for _, v := range []float64{b, c, d} {
		if v < m {
			m = v
		}
	}
	return m
}

func max4(a, b, c, d float64) float64 {
	m := a
	for _, v := range []float64{b, c, d} {
		if v > m {
			m = v
		}
	}
	return m
}
