package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/feed-ration/internal/lpsolver"
	"github.com/iwvelando/feed-ration/internal/ration"
	"github.com/iwvelando/feed-ration/pkg/constants"
)

// OptimizerConfig tunes the ration model and selects the LP backend.
// Zero values take the defaults on Normalize.
type OptimizerConfig struct {
	PenaltyFactor   float64 `yaml:"penaltyFactor,omitempty" mapstructure:"penaltyFactor"`
	BatchMass       float64 `yaml:"batchMass,omitempty" mapstructure:"batchMass"`
	MinCategoryMass float64 `yaml:"minCategoryMass,omitempty" mapstructure:"minCategoryMass"`
	Tolerance       float64 `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	Solver          string  `yaml:"solver,omitempty" mapstructure:"solver"`
	SolverTolerance float64 `yaml:"solverTolerance,omitempty" mapstructure:"solverTolerance"`
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	if o.PenaltyFactor == 0 {
		o.PenaltyFactor = constants.DefaultPenaltyFactor
	}
	if o.BatchMass == 0 {
		o.BatchMass = constants.BatchMass
	}
	if o.MinCategoryMass == 0 {
		o.MinCategoryMass = constants.MinCategoryMass
	}
	if o.Tolerance == 0 {
		o.Tolerance = constants.DefaultTolerance
	}
	o.Solver = strings.ToLower(strings.TrimSpace(o.Solver))
	if o.Solver == "" {
		o.Solver = constants.DefaultSolver
	}
	if o.SolverTolerance == 0 {
		o.SolverTolerance = constants.DefaultSolverTolerance
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	if !positive(o.PenaltyFactor) {
		return fmt.Errorf("optimizer penaltyFactor %v must be positive", o.PenaltyFactor)
	}
	if !positive(o.BatchMass) {
		return fmt.Errorf("optimizer batchMass %v must be positive", o.BatchMass)
	}
	if o.MinCategoryMass < 0 || math.IsNaN(o.MinCategoryMass) {
		return fmt.Errorf("optimizer minCategoryMass %v must not be negative", o.MinCategoryMass)
	}
	if o.MinCategoryMass*float64(len(ration.Categories)) > o.BatchMass {
		return fmt.Errorf("optimizer minCategoryMass %v leaves no room in batchMass %v", o.MinCategoryMass, o.BatchMass)
	}
	if o.Tolerance < 0 || math.IsNaN(o.Tolerance) {
		return fmt.Errorf("optimizer tolerance %v must not be negative", o.Tolerance)
	}
	if o.SolverTolerance < 0 || math.IsNaN(o.SolverTolerance) {
		return fmt.Errorf("optimizer solverTolerance %v must not be negative", o.SolverTolerance)
	}
	return nil
}

// KnownSolver reports whether Solver names a registered LP backend. An
// unknown backend is not a validation error; the run reports the solver as
// unavailable instead.
func (o *OptimizerConfig) KnownSolver() bool {
	solver := strings.ToLower(strings.TrimSpace(o.Solver))
	if solver == "" {
		return true
	}
	for _, name := range lpsolver.Backends() {
		if name == solver {
			return true
		}
	}
	return false
}

// Options converts the configuration into model options.
func (o *OptimizerConfig) Options() ration.Options {
	return ration.Options{
		PenaltyFactor:   o.PenaltyFactor,
		BatchMass:       o.BatchMass,
		MinCategoryMass: o.MinCategoryMass,
		Tolerance:       o.Tolerance,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
