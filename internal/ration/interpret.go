package ration

import (
	"fmt"
	"math"
)

// Status is the caller-facing outcome of an optimization.
type Status int

const (
	StatusOptimal Status = iota + 1
	StatusInfeasible
	StatusUnbounded
	StatusSolverUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusSolverUnavailable:
		return "solver_unavailable"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Solution is the interpreted result of one optimization. Quantities holds
// every selected ingredient id, including those assigned zero. Achieved
// values are per unit mass of ration, directly comparable with Targets.
type Solution struct {
	Status     Status
	Quantities map[string]float64
	TotalCost  float64
	Achieved   map[NutrientID]float64
	Targets    map[NutrientID]float64
	Shortfalls map[NutrientID]bool
	Objective  float64
	Detail     string
}

// Optimal reports whether the solution carries quantities.
func (s Solution) Optimal() bool {
	return s.Status == StatusOptimal
}

// ShortNutrients lists nutrients below target in Nutrients order.
func (s Solution) ShortNutrients() []NutrientID {
	var short []NutrientID
	for _, n := range Nutrients {
		if s.Shortfalls[n] {
			short = append(short, n)
		}
	}
	return short
}

func emptySolution(status Status, detail string) Solution {
	return Solution{
		Status:     status,
		Quantities: map[string]float64{},
		Achieved:   map[NutrientID]float64{},
		Targets:    map[NutrientID]float64{},
		Shortfalls: map[NutrientID]bool{},
		Detail:     detail,
	}
}

// Unavailable returns the solution reported when no solver could be created.
func Unavailable(err error) Solution {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return emptySolution(StatusSolverUnavailable, detail)
}

// Interpret maps raw solver output back onto the selected ingredients.
//
// Slack values are not exposed; shortfalls are derived from achieved
// nutrient levels instead. Quantities within tolerance below zero are
// clamped to zero, and achieved levels within tolerance of their target are
// reported as the target so that solver round-off never shows as a shortfall.
func Interpret(res SolveResult, model *Model, ingredients []Ingredient, profile NutrientProfile, tolerance float64) Solution {
	if model == nil {
		return emptySolution(StatusInfeasible, "no model to interpret")
	}
	switch res.Status {
	case SolveOptimal:
	case SolveUnbounded:
		return emptySolution(StatusUnbounded, errorDetail(res.Err, "solver reported an unbounded model"))
	case SolveInfeasible:
		return emptySolution(StatusInfeasible, errorDetail(res.Err, "solver reported an infeasible model"))
	default:
		return emptySolution(StatusInfeasible, errorDetail(res.Err, "solver failed"))
	}

	decision := model.DecisionValues(res.Values)
	if len(decision) != len(ingredients) {
		return emptySolution(StatusInfeasible,
			fmt.Sprintf("solver returned %d values for %d ingredients", len(res.Values), len(ingredients)))
	}

	batch := model.BatchMass
	if batch <= 0 {
		batch = DefaultOptions().BatchMass
	}

	sol := Solution{
		Status:     StatusOptimal,
		Quantities: make(map[string]float64, len(ingredients)),
		Achieved:   make(map[NutrientID]float64, len(Nutrients)),
		Targets:    make(map[NutrientID]float64, len(Nutrients)),
		Shortfalls: make(map[NutrientID]bool, len(Nutrients)),
		Objective:  res.Objective,
	}

	totals := make(map[NutrientID]float64, len(Nutrients))
	for i, ing := range ingredients {
		qty := decision[i]
		if math.IsNaN(qty) || qty < -tolerance {
			return emptySolution(StatusInfeasible,
				fmt.Sprintf("solver returned quantity %v for %q", qty, ing.ID))
		}
		if qty < 0 {
			qty = 0
		}
		sol.Quantities[ing.ID] = qty
		sol.TotalCost += qty * ing.UnitPrice
		for _, n := range Nutrients {
			totals[n] += qty * ing.Nutrient(n)
		}
	}

	for _, n := range Nutrients {
		target := profile.Target(n)
		achieved := totals[n] / batch
		if math.Abs(achieved-target) <= tolerance {
			achieved = target
		}
		sol.Targets[n] = target
		sol.Achieved[n] = achieved
		sol.Shortfalls[n] = achieved < target
	}

	return sol
}

func errorDetail(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
