// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
)

// ValidatePrice returns a warning for a zero price. Negative prices are
// errors and are rejected when the ration is built.
func ValidatePrice(name string, price float64) string {
	if price == 0 {
		return fmt.Sprintf("Ingredient '%s' has a zero price and will be treated as free", name)
	}
	return ""
}

// ValidateNutrientContent returns a warning when a feedstuff lists no
// positive nutrient content; such an ingredient only ever adds mass.
func ValidateNutrientContent(name string, content map[string]float64) string {
	for _, v := range content {
		if v > 0 {
			return ""
		}
	}
	return fmt.Sprintf("Ingredient '%s' has no nutrient content and only contributes mass", name)
}

// ValidateCategoryCoverage returns a warning listing categories without any
// selected ingredient. counts is keyed by category label; labels gives the
// required categories in reporting order.
func ValidateCategoryCoverage(counts map[string]int, labels []string) string {
	var missing []string
	for _, label := range labels {
		if counts[label] == 0 {
			missing = append(missing, label)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("Selection has no ingredient from %s; the optimization will be rejected", strings.Join(missing, ", "))
}

// ValidateAnimalType returns a warning when animalType is not among known.
func ValidateAnimalType(animalType string, known []string) string {
	for _, k := range known {
		if strings.EqualFold(strings.TrimSpace(animalType), k) {
			return ""
		}
	}
	if len(known) == 0 {
		return fmt.Sprintf("Animal type '%s' has no requirements; none are configured", animalType)
	}
	return fmt.Sprintf("Animal type '%s' has no requirements (known: %s)", animalType, strings.Join(known, ", "))
}

// ConfigValidator aggregates the per-field checks over one run file.
type ConfigValidator struct {
	AnimalType  string
	AnimalTypes []string
	Categories  []string
	Ingredients []IngredientConfig
}

// IngredientConfig is the validation view of one selected ingredient.
type IngredientConfig struct {
	Name     string
	Category string
	Price    float64
	Priced   bool
	Content  map[string]float64
	Known    bool
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if w := ValidateAnimalType(cv.AnimalType, cv.AnimalTypes); w != "" {
		warnings = append(warnings, w)
	}

	counts := make(map[string]int, len(cv.Categories))
	for _, ing := range cv.Ingredients {
		if !ing.Known {
			warnings = append(warnings, fmt.Sprintf("Ingredient '%s' is not in the catalog", ing.Name))
			continue
		}
		counts[ing.Category]++
		if !ing.Priced {
			warnings = append(warnings, fmt.Sprintf("Ingredient '%s' has no price", ing.Name))
		} else if w := ValidatePrice(ing.Name, ing.Price); w != "" {
			warnings = append(warnings, w)
		}
		if w := ValidateNutrientContent(ing.Name, ing.Content); w != "" {
			warnings = append(warnings, w)
		}
	}

	if w := ValidateCategoryCoverage(counts, cv.Categories); w != "" {
		warnings = append(warnings, w)
	}

	return warnings
}
