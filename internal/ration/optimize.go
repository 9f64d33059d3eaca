package ration

import (
	"errors"

	"go.uber.org/zap"
)

var errNoSolverFactory = errors.New("no LP solver backend configured")

// Optimize builds the ration model, solves it with a solver created from
// factory and interprets the result.
//
// The returned error is non-nil only for model construction failures, in
// which case no solver is created. Solver unavailability and every solve
// outcome are reported through Solution.Status.
func Optimize(factory SolverFactory, ingredients []Ingredient, profile NutrientProfile, opts Options) (Solution, error) {
	return NewOptimizer(nil, factory, opts).Optimize(ingredients, profile)
}

// Optimizer runs Optimize with a fixed backend, options and logger. It holds
// no per-run state and may be shared between goroutines.
type Optimizer struct {
	logger  *zap.Logger
	factory SolverFactory
	opts    Options
}

// NewOptimizer constructs an Optimizer. A nil logger disables logging.
func NewOptimizer(logger *zap.Logger, factory SolverFactory, opts Options) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{logger: logger, factory: factory, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (o *Optimizer) Options() Options {
	return o.opts
}

// Optimize runs one build-solve-interpret cycle.
func (o *Optimizer) Optimize(ingredients []Ingredient, profile NutrientProfile) (Solution, error) {
	model, err := BuildModel(ingredients, profile, o.opts)
	if err != nil {
		o.logger.Debug("ration model rejected",
			zap.String("op", "ration.Optimize"),
			zap.String("animalType", profile.AnimalType),
			zap.Error(err),
		)
		return Solution{}, err
	}

	if ce := o.logger.Check(zap.DebugLevel, "ration model built"); ce != nil {
		ce.Write(
			zap.String("op", "ration.Optimize"),
			zap.String("animalType", profile.AnimalType),
			zap.Int("decisionVariables", model.NumDecision()),
			zap.Int("slackVariables", model.NumSlack()),
			zap.Int("constraints", len(model.Constraints)),
			zap.Stringer("model", model),
		)
	}

	if o.factory == nil {
		o.logger.Warn("ration solver unavailable",
			zap.String("op", "ration.Optimize"),
			zap.Error(errNoSolverFactory),
		)
		return Unavailable(errNoSolverFactory), nil
	}

	solver, err := o.factory.CreateSolver()
	if err != nil {
		o.logger.Warn("ration solver unavailable",
			zap.String("op", "ration.Optimize"),
			zap.Error(err),
		)
		return Unavailable(err), nil
	}

	res := solver.Solve(model)
	sol := Interpret(res, model, ingredients, profile, o.opts.Tolerance)

	o.logger.Debug("ration model solved",
		zap.String("op", "ration.Optimize"),
		zap.String("animalType", profile.AnimalType),
		zap.Stringer("solveStatus", res.Status),
		zap.Stringer("status", sol.Status),
		zap.Float64("objective", res.Objective),
		zap.Float64("totalCost", sol.TotalCost),
	)

	return sol, nil
}
