// Package configprocessor provides shared configuration processing utilities.
package configprocessor

import (
	"github.com/iwvelando/feed-ration/pkg/validation"
)

// IngredientInfo represents one selected ingredient after catalog lookup.
// Known is false when the name did not resolve to a catalog entry.
type IngredientInfo struct {
	Name     string
	Category string
	Price    float64
	Priced   bool
	Content  map[string]float64
	Known    bool
}

// RunInfo represents the parts of a run file that warnings are derived from.
type RunInfo struct {
	AnimalType  string
	AnimalTypes []string
	Categories  []string
	Ingredients []IngredientInfo
}

// Processor handles configuration processing and validation
type Processor struct{}

// NewProcessor creates a new configuration processor
func NewProcessor() *Processor {
	return &Processor{}
}

// ValidateConfiguration validates the configuration and returns warnings
func (p *Processor) ValidateConfiguration(run RunInfo) []string {
	ingredients := make([]validation.IngredientConfig, 0, len(run.Ingredients))
	for _, ing := range run.Ingredients {
		ingredients = append(ingredients, validation.IngredientConfig{
			Name:     ing.Name,
			Category: ing.Category,
			Price:    ing.Price,
			Priced:   ing.Priced,
			Content:  ing.Content,
			Known:    ing.Known,
		})
	}

	validator := validation.ConfigValidator{
		AnimalType:  run.AnimalType,
		AnimalTypes: run.AnimalTypes,
		Categories:  run.Categories,
		Ingredients: ingredients,
	}
	warnings := validator.ValidateAll()
	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
