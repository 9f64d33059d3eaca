// Package optimizer runs one configured ration optimization end to end.
package optimizer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/feed-ration/internal/catalog"
	"github.com/iwvelando/feed-ration/internal/config"
	"github.com/iwvelando/feed-ration/internal/lpsolver"
	"github.com/iwvelando/feed-ration/internal/metrics"
	"github.com/iwvelando/feed-ration/internal/ration"
	"github.com/iwvelando/feed-ration/pkg/mathutil"
	"github.com/iwvelando/feed-ration/pkg/optimization"
	"go.uber.org/zap"
)

type Runner struct {
	logger   *zap.Logger
	conf     *config.Configuration
	recorder metrics.Recorder
	factory  ration.SolverFactory
}

// Result is the outcome of one run.
type Result struct {
	RunID       string
	AnimalType  string
	Solution    ration.Solution
	Ingredients []ration.Ingredient
	Warnings    []string
	Duration    time.Duration
}

// Summary flattens the result for reporting.
func (r Result) Summary() optimization.Summary {
	return optimization.NewSummary(r.RunID, r.AnimalType, r.Solution, r.Ingredients)
}

// NewRunner constructs a Runner for the provided configuration. A nil
// recorder discards metrics.
func NewRunner(logger *zap.Logger, conf *config.Configuration, recorder metrics.Recorder) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Runner{logger: logger, conf: conf, recorder: recorder}, nil
}

// WithSolverFactory replaces the backend named in the configuration.
func (r *Runner) WithSolverFactory(factory ration.SolverFactory) *Runner {
	r.factory = factory
	return r
}

// Run resolves the catalog, requirements and priced selection, then
// optimizes the ration. Errors are returned for anything that prevents a
// model from being built; every solver outcome is reported in the result.
func (r *Runner) Run() (*Result, error) {
	start := time.Now()
	animalType := r.conf.Ration.AnimalType

	opt := r.conf.Optimizer
	if err := opt.Validate(); err != nil {
		return nil, r.reject(animalType, start, err)
	}

	cat, err := r.conf.BuildCatalog()
	if err != nil {
		return nil, r.reject(animalType, start, fmt.Errorf("catalog: %w", err))
	}
	req, err := r.conf.BuildRequirements()
	if err != nil {
		return nil, r.reject(animalType, start, fmt.Errorf("requirements: %w", err))
	}
	profile, err := req.Profile(animalType)
	if err != nil {
		return nil, r.reject(animalType, start, err)
	}
	ingredients, err := catalog.Select(cat, r.conf.SelectedNames(), r.conf.Prices())
	if err != nil {
		return nil, r.reject(profile.AnimalType, start, err)
	}

	factory := r.factory
	if factory == nil {
		factory = lpsolver.NewFactory(r.logger, opt.Solver, opt.SolverTolerance)
	}

	sol, err := ration.NewOptimizer(r.logger, factory, opt.Options()).Optimize(ingredients, profile)
	if err != nil {
		return nil, r.reject(profile.AnimalType, start, err)
	}

	result := &Result{
		RunID:       uuid.NewString(),
		AnimalType:  profile.AnimalType,
		Solution:    sol,
		Ingredients: ingredients,
		Duration:    time.Since(start),
	}
	r.recorder.RecordOptimization(result.AnimalType, sol, result.Duration)

	if sol.Optimal() {
		total := 0.0
		for _, q := range sol.Quantities {
			total += q
		}
		if !mathutil.WithinTolerance(total, opt.BatchMass, opt.Tolerance*opt.BatchMass) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Ration mass %.6f differs from batch mass %v", total, opt.BatchMass))
		}
	}

	fields := []zap.Field{
		zap.String("op", "optimizer.Run"),
		zap.String("runId", result.RunID),
		zap.String("animalType", result.AnimalType),
		zap.Stringer("status", sol.Status),
		zap.Duration("duration", result.Duration),
	}
	if sol.Optimal() {
		short := make([]string, 0, len(sol.Shortfalls))
		for _, n := range sol.ShortNutrients() {
			short = append(short, string(n))
		}
		r.logger.Info("ration optimized", append(fields,
			zap.Float64("totalCost", sol.TotalCost),
			zap.Strings("shortfalls", short),
		)...)
	} else {
		r.logger.Warn("ration not optimal", append(fields, zap.String("detail", sol.Detail))...)
	}

	return result, nil
}

func (r *Runner) reject(animalType string, start time.Time, err error) error {
	r.recorder.RecordRejection(animalType, time.Since(start))
	r.logger.Debug("ration run rejected",
		zap.String("op", "optimizer.Run"),
		zap.String("animalType", animalType),
		zap.Error(err),
	)
	return err
}
