package ration

import (
	"math"

	"github.com/iwvelando/feed-ration/pkg/constants"
)

// Options tunes model construction and interpretation.
//
// PenaltyFactor is the objective cost of one unit of slack on a nutrient
// constraint. Raising it resists shortfalls more strongly; lowering it lets
// the optimizer trade nutrient coverage for price more aggressively.
type Options struct {
	PenaltyFactor   float64
	BatchMass       float64
	MinCategoryMass float64
	Tolerance       float64
}

// DefaultOptions returns the reference configuration: penalty 5, a 100 unit
// batch, at least 1 unit from each category.
func DefaultOptions() Options {
	return Options{
		PenaltyFactor:   constants.DefaultPenaltyFactor,
		BatchMass:       constants.BatchMass,
		MinCategoryMass: constants.MinCategoryMass,
		Tolerance:       constants.DefaultTolerance,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PenaltyFactor == 0 {
		o.PenaltyFactor = def.PenaltyFactor
	}
	if o.BatchMass == 0 {
		o.BatchMass = def.BatchMass
	}
	if o.MinCategoryMass == 0 {
		o.MinCategoryMass = def.MinCategoryMass
	}
	if o.Tolerance == 0 {
		o.Tolerance = def.Tolerance
	}
	return o
}

func (o Options) validate() error {
	if !finitePositive(o.PenaltyFactor) {
		return constructionError(ErrInvalidOptions, "penalty factor %v must be positive", o.PenaltyFactor)
	}
	if !finitePositive(o.BatchMass) {
		return constructionError(ErrInvalidOptions, "batch mass %v must be positive", o.BatchMass)
	}
	if !finiteNonNegative(o.MinCategoryMass) {
		return constructionError(ErrInvalidOptions, "minimum category mass %v must be non-negative", o.MinCategoryMass)
	}
	if o.MinCategoryMass*float64(len(Categories)) > o.BatchMass {
		return constructionError(ErrInvalidOptions, "minimum category mass %v cannot fit in batch mass %v", o.MinCategoryMass, o.BatchMass)
	}
	if !finiteNonNegative(o.Tolerance) {
		return constructionError(ErrInvalidOptions, "tolerance %v must be non-negative", o.Tolerance)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
