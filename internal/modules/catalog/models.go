package catalog

import (
	"fmt"
	"sort"
	"time"
)

// RateType identifies the pricing model of a plan.
// It is a closed enum: the pricer switches exhaustively over it and
// new pricing models are added here, never by inspecting loose fields.
type RateType string

const (
	RateTypeFixed     RateType = "fixed"
	RateTypeTiered    RateType = "tiered"
	RateTypeTimeOfUse RateType = "time_of_use"
	RateTypeVariable  RateType = "variable"
	RateTypeIndexed   RateType = "indexed"
)

// Valid reports whether the rate type is one of the known variants
func (t RateType) Valid() bool {
	switch t {
	case RateTypeFixed, RateTypeTiered, RateTypeTimeOfUse, RateTypeVariable, RateTypeIndexed:
		return true
	}
	return false
}

// FixedRate charges a single rate for every kWh
type FixedRate struct {
	RatePerKWh float64 `json:"rate_per_kwh" yaml:"rate_per_kwh"`
}

// TierBracket is one step of a tiered rate. MaxKWh is the upper bound of
// monthly consumption the bracket covers; 0 means open-ended (top tier).
type TierBracket struct {
	MaxKWh float64 `json:"max_kwh" yaml:"max_kwh"`
	Rate   float64 `json:"rate" yaml:"rate"`
}

// TieredRate consumes monthly usage bracket by bracket
type TieredRate struct {
	Tiers []TierBracket `json:"tiers" yaml:"tiers"`
}

// SortedTiers returns the brackets ordered by ascending breakpoint with
// the open-ended bracket (MaxKWh == 0) last.
func (r TieredRate) SortedTiers() []TierBracket {
	tiers := make([]TierBracket, len(r.Tiers))
	copy(tiers, r.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		// Open-ended brackets sort after every bounded one
		if tiers[i].MaxKWh == 0 {
			return false
		}
		if tiers[j].MaxKWh == 0 {
			return true
		}
		return tiers[i].MaxKWh < tiers[j].MaxKWh
	})
	return tiers
}

// TimeOfUseRate splits usage between peak and off-peak rates.
// PeakFraction is the stated share of consumption that falls in peak
// hours; nil means the plan states none and the pricer substitutes its
// configured default assumption. A stated 0 bills everything off-peak.
type TimeOfUseRate struct {
	PeakRate     float64  `json:"peak_rate" yaml:"peak_rate"`
	OffPeakRate  float64  `json:"off_peak_rate" yaml:"off_peak_rate"`
	PeakHours    string   `json:"peak_hours,omitempty" yaml:"peak_hours,omitempty"`
	PeakFraction *float64 `json:"peak_fraction,omitempty" yaml:"peak_fraction,omitempty"`
}

// VariableRate tracks a market index. HistoricalAvgRate is the expected
// rate used for cost projection; BaseRate is the supplier's floor rate.
// Shared by the variable and indexed rate types.
type VariableRate struct {
	BaseRate          float64 `json:"base_rate" yaml:"base_rate"`
	HistoricalAvgRate float64 `json:"historical_avg_rate" yaml:"historical_avg_rate"`
}

// RateStructure is a closed tagged variant: Type selects exactly one of
// the payload pointers. Variable and indexed types share the Variable
// payload and differ only in the volatility band applied downstream.
type RateStructure struct {
	Type      RateType       `json:"type" yaml:"type"`
	Fixed     *FixedRate     `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Tiered    *TieredRate    `json:"tiered,omitempty" yaml:"tiered,omitempty"`
	TimeOfUse *TimeOfUseRate `json:"time_of_use,omitempty" yaml:"time_of_use,omitempty"`
	Variable  *VariableRate  `json:"variable,omitempty" yaml:"variable,omitempty"`
}

// Validate checks that the tag matches exactly one populated payload
func (r RateStructure) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("unknown rate type %q", r.Type)
	}

	count := 0
	if r.Fixed != nil {
		count++
	}
	if r.Tiered != nil {
		count++
	}
	if r.TimeOfUse != nil {
		count++
	}
	if r.Variable != nil {
		count++
	}
	if count != 1 {
		return fmt.Errorf("rate structure must carry exactly one payload, got %d", count)
	}

	switch r.Type {
	case RateTypeFixed:
		if r.Fixed == nil {
			return fmt.Errorf("fixed rate type requires fixed payload")
		}
		if r.Fixed.RatePerKWh < 0 {
			return fmt.Errorf("rate_per_kwh must not be negative")
		}
	case RateTypeTiered:
		if r.Tiered == nil {
			return fmt.Errorf("tiered rate type requires tiered payload")
		}
		if len(r.Tiered.Tiers) == 0 {
			return fmt.Errorf("tiered rate requires at least one bracket")
		}
		for _, tier := range r.Tiered.Tiers {
			if tier.Rate < 0 || tier.MaxKWh < 0 {
				return fmt.Errorf("tier brackets must not be negative")
			}
		}
	case RateTypeTimeOfUse:
		if r.TimeOfUse == nil {
			return fmt.Errorf("time_of_use rate type requires time_of_use payload")
		}
		if r.TimeOfUse.PeakRate < 0 || r.TimeOfUse.OffPeakRate < 0 {
			return fmt.Errorf("time of use rates must not be negative")
		}
		if f := r.TimeOfUse.PeakFraction; f != nil && (*f < 0 || *f > 1) {
			return fmt.Errorf("peak_fraction must be within [0,1]")
		}
	case RateTypeVariable, RateTypeIndexed:
		if r.Variable == nil {
			return fmt.Errorf("%s rate type requires variable payload", r.Type)
		}
		if r.Variable.HistoricalAvgRate < 0 || r.Variable.BaseRate < 0 {
			return fmt.Errorf("variable rates must not be negative")
		}
	}

	return nil
}

// IsVariable reports whether downstream savings math should attach an
// uncertainty band to this structure.
func (r RateStructure) IsVariable() bool {
	return r.Type == RateTypeVariable || r.Type == RateTypeIndexed
}

// EstimatedAvgRate derives a representative per-kWh rate from whichever
// payload is present. Used for display and as the last-resort pricing
// fallback when the structure fails validation.
func (r RateStructure) EstimatedAvgRate() float64 {
	switch {
	case r.Fixed != nil:
		return r.Fixed.RatePerKWh
	case r.Tiered != nil && len(r.Tiered.Tiers) > 0:
		total := 0.0
		for _, tier := range r.Tiered.Tiers {
			total += tier.Rate
		}
		return total / float64(len(r.Tiered.Tiers))
	case r.TimeOfUse != nil:
		return (r.TimeOfUse.PeakRate + r.TimeOfUse.OffPeakRate) / 2
	case r.Variable != nil:
		return r.Variable.HistoricalAvgRate
	}
	return 0
}

// Plan is one catalog entry offered by a supplier.
// ContractLengthMonths 0 means month-to-month.
type Plan struct {
	ID                   string        `json:"id" yaml:"id"`
	Name                 string        `json:"name" yaml:"name"`
	Supplier             string        `json:"supplier" yaml:"supplier"`
	Rate                 RateStructure `json:"rate" yaml:"rate"`
	ContractLengthMonths int           `json:"contract_length_months" yaml:"contract_length_months"`
	EarlyTerminationFee  float64       `json:"early_termination_fee" yaml:"early_termination_fee"`
	RenewablePercentage  float64       `json:"renewable_percentage" yaml:"renewable_percentage"`
	MonthlyFee           float64       `json:"monthly_fee" yaml:"monthly_fee"`
	ConnectionFee        float64       `json:"connection_fee" yaml:"connection_fee"`
	SupplierRating       *float64      `json:"supplier_rating,omitempty" yaml:"supplier_rating,omitempty"`
	Region               string        `json:"region,omitempty" yaml:"region,omitempty"`
	Active               bool          `json:"active" yaml:"active"`
	UpdatedAt            time.Time     `json:"updated_at" yaml:"-"`
}

// Validate checks required fields and value ranges.
// A plan that fails validation is skipped by the pipeline with a warning,
// never silently repaired.
func (p Plan) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("plan id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("plan %s: name is required", p.ID)
	}
	if p.Supplier == "" {
		return fmt.Errorf("plan %s: supplier is required", p.ID)
	}
	if p.ContractLengthMonths < 0 {
		return fmt.Errorf("plan %s: contract_length_months must not be negative", p.ID)
	}
	if p.EarlyTerminationFee < 0 {
		return fmt.Errorf("plan %s: early_termination_fee must not be negative", p.ID)
	}
	if p.RenewablePercentage < 0 || p.RenewablePercentage > 100 {
		return fmt.Errorf("plan %s: renewable_percentage must be within [0,100]", p.ID)
	}
	if p.MonthlyFee < 0 || p.ConnectionFee < 0 {
		return fmt.Errorf("plan %s: fees must not be negative", p.ID)
	}
	if p.SupplierRating != nil && (*p.SupplierRating < 0 || *p.SupplierRating > 5) {
		return fmt.Errorf("plan %s: supplier_rating must be within [0,5]", p.ID)
	}
	if err := p.Rate.Validate(); err != nil {
		return fmt.Errorf("plan %s: %w", p.ID, err)
	}
	return nil
}

// IsMonthToMonth reports whether the plan has no fixed contract term
func (p Plan) IsMonthToMonth() bool {
	return p.ContractLengthMonths == 0
}
