package domain

import (
	"fmt"
	"time"
)

// MonthlyUsagePoint is one month of metered household consumption.
// Month is normalized to the first day of the month. Points are supplied
// externally (meter readings, bill imports) and never mutated.
type MonthlyUsagePoint struct {
	Month time.Time `json:"month"`
	KWh   float64   `json:"kwh"`
}

// NewMonthlyUsagePoint normalizes the month to midnight UTC on the first day
func NewMonthlyUsagePoint(year int, month time.Month, kwh float64) MonthlyUsagePoint {
	return MonthlyUsagePoint{
		Month: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		KWh:   kwh,
	}
}

// UserPreferences holds the four ranking factor weights.
// Weights are integer percentages and must sum to exactly 100.
type UserPreferences struct {
	CostWeight        int `json:"cost_weight"`
	FlexibilityWeight int `json:"flexibility_weight"`
	RenewableWeight   int `json:"renewable_weight"`
	RatingWeight      int `json:"rating_weight"`
}

// DefaultPreferences is the cost-leaning split used when a caller
// supplies no explicit weights.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		CostWeight:        40,
		FlexibilityWeight: 20,
		RenewableWeight:   20,
		RatingWeight:      20,
	}
}

// Validate rejects weight sets that do not sum to 100 or carry negative
// entries. Invalid preferences are rejected before the pipeline runs,
// never silently renormalized.
func (p UserPreferences) Validate() error {
	weights := map[string]int{
		"cost_weight":        p.CostWeight,
		"flexibility_weight": p.FlexibilityWeight,
		"renewable_weight":   p.RenewableWeight,
		"rating_weight":      p.RatingWeight,
	}

	sum := 0
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, w)
		}
		sum += w
	}

	if sum != 100 {
		return fmt.Errorf("preference weights must sum to 100, got %d", sum)
	}

	return nil
}
