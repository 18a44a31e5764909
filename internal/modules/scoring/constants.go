package scoring

// ============================================================================
// SCORE SCALE
// ============================================================================

const (
	// ScoreMin and ScoreMax bound every factor score and the composite
	ScoreMin = 0.0
	ScoreMax = 100.0

	// NeutralRatingScore is substituted when a plan carries no supplier rating
	NeutralRatingScore = 50.0

	// RatingScaleMax is the native upper bound of supplier ratings
	RatingScaleMax = 5.0
)

// ============================================================================
// FLEXIBILITY SCORING
// ============================================================================

const (
	// MaxPenalizedContractMonths is the contract length at which the
	// contract component of the flexibility score reaches zero.
	// Month-to-month plans score the full 100.
	MaxPenalizedContractMonths = 36.0

	// ETFPenaltyPerUnit converts an early termination fee into score
	// points deducted from the flexibility score.
	ETFPenaltyPerUnit = 0.1

	// ETFPenaltyCap bounds the early-termination-fee deduction
	ETFPenaltyCap = 30.0
)

// ============================================================================
// RANKING
// ============================================================================

const (
	// DefaultTopN is how many ranked plans a recommendation returns
	// when the caller does not ask for a specific count.
	DefaultTopN = 3
)
