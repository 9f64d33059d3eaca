// Package testutil provides common fixtures and fakes for testing.
package testutil

import (
	"github.com/iwvelando/feed-ration/internal/ration"
)

// ScenarioIngredients returns one ingredient per category, each carrying a
// single nutrient. Against ScenarioProfile the least-cost ration is
// 20 oilcake, 60 straw and 20 berseem at a cost of 160.
func ScenarioIngredients() []ration.Ingredient {
	return []ration.Ingredient{
		{
			ID:        "Oilcake",
			Category:  ration.Concentrate,
			Content:   map[ration.NutrientID]float64{ration.CP: 40},
			UnitPrice: 3,
		},
		{
			ID:        "Straw",
			Category:  ration.DryFodder,
			Content:   map[ration.NutrientID]float64{ration.TDN: 60},
			UnitPrice: 1,
		},
		{
			ID:        "Berseem",
			Category:  ration.GreenFodder,
			Content:   map[ration.NutrientID]float64{ration.Ca: 2},
			UnitPrice: 2,
		},
	}
}

// ScenarioProfile returns targets the ScenarioIngredients can fully cover.
func ScenarioProfile() ration.NutrientProfile {
	return ration.NutrientProfile{
		AnimalType: "Heifer",
		Targets: map[ration.NutrientID]float64{
			ration.TDN: 30,
			ration.ME:  0,
			ration.Ca:  0.4,
			ration.P:   0,
			ration.CP:  8,
		},
	}
}

// FindIngredient finds an ingredient by id.
// Returns a pointer to the ingredient if found, nil otherwise.
func FindIngredient(ingredients []ration.Ingredient, id string) *ration.Ingredient {
	for i := range ingredients {
		if ingredients[i].ID == id {
			return &ingredients[i]
		}
	}
	return nil
}

// SumQuantities returns the total mass of a solution.
func SumQuantities(sol ration.Solution) float64 {
	total := 0.0
	for _, qty := range sol.Quantities {
		total += qty
	}
	return total
}

// QuantityByCategory totals solution quantities per ingredient category.
func QuantityByCategory(sol ration.Solution, ingredients []ration.Ingredient) map[ration.Category]float64 {
	totals := make(map[ration.Category]float64, len(ration.Categories))
	for _, ing := range ingredients {
		totals[ing.Category] += sol.Quantities[ing.ID]
	}
	return totals
}

// StaticSolver returns Result for every Solve call and records the models it saw.
type StaticSolver struct {
	Result ration.SolveResult
	Models []*ration.Model
}

// Solve implements ration.Solver.
func (s *StaticSolver) Solve(model *ration.Model) ration.SolveResult {
	s.Models = append(s.Models, model)
	return s.Result
}

// CountingFactory counts CreateSolver calls and hands out Solver, or Err
// when set.
type CountingFactory struct {
	Calls  int
	Solver ration.Solver
	Err    error
}

// CreateSolver implements ration.SolverFactory.
func (f *CountingFactory) CreateSolver() (ration.Solver, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Solver, nil
}
