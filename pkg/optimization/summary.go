// Package optimization provides shared data structures for optimization results.
package optimization

import (
	"github.com/iwvelando/feed-ration/internal/ration"
	"github.com/iwvelando/feed-ration/pkg/mathutil"
)

// Summary captures the result of a single ration optimization.
type Summary struct {
	RunID       string           `json:"runId,omitempty"`
	AnimalType  string           `json:"animalType"`
	Status      string           `json:"status"`
	Detail      string           `json:"detail,omitempty"`
	Ingredients []IngredientLine `json:"ingredients,omitempty"`
	Nutrients   []NutrientLine   `json:"nutrients,omitempty"`
	TotalCost   float64          `json:"totalCost"`
	Notes       []string         `json:"notes,omitempty"`
}

// IngredientLine is one ingredient of the ration.
type IngredientLine struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Share     float64 `json:"share"`
	UnitPrice float64 `json:"unitPrice"`
	Cost      float64 `json:"cost"`
}

// NutrientLine compares the achieved level of one nutrient with its target.
type NutrientLine struct {
	Nutrient  string  `json:"nutrient"`
	Achieved  float64 `json:"achieved"`
	Target    float64 `json:"target"`
	Shortfall bool    `json:"shortfall"`
}

// Optimal reports whether the summary carries a ration.
func (s Summary) Optimal() bool {
	return s.Status == ration.StatusOptimal.String()
}

// NewSummary flattens a solution into report rows. Ingredient rows follow the
// selection order and nutrient rows follow ration.Nutrients.
func NewSummary(runID, animalType string, sol ration.Solution, ingredients []ration.Ingredient) Summary {
	s := Summary{
		RunID:      runID,
		AnimalType: animalType,
		Status:     sol.Status.String(),
		Detail:     sol.Detail,
	}
	if !sol.Optimal() {
		return s
	}

	total := 0.0
	for _, ing := range ingredients {
		total += sol.Quantities[ing.ID]
	}

	for _, ing := range ingredients {
		qty := sol.Quantities[ing.ID]
		s.Ingredients = append(s.Ingredients, IngredientLine{
			Name:      ing.ID,
			Category:  ing.Category.Label(),
			Quantity:  qty,
			Share:     mathutil.CalculatePercentage(qty, total),
			UnitPrice: ing.UnitPrice,
			Cost:      qty * ing.UnitPrice,
		})
		if mathutil.IsZero(qty) {
			s.Notes = append(s.Notes, ing.ID+" is not used")
		}
	}

	for _, n := range ration.Nutrients {
		s.Nutrients = append(s.Nutrients, NutrientLine{
			Nutrient:  string(n),
			Achieved:  sol.Achieved[n],
			Target:    sol.Targets[n],
			Shortfall: sol.Shortfalls[n],
		})
	}
	s.TotalCost = mathutil.Round(sol.TotalCost)
	return s
}

// Shortfalls returns the nutrient rows below target.
func (s Summary) Shortfalls() []NutrientLine {
	var short []NutrientLine
	for _, n := range s.Nutrients {
		if n.Shortfall {
			short = append(short, n)
		}
	}
	return short
}
