package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/feed-ration/internal/ration"
)

var (
	// ErrMissingPrice is returned when a selected ingredient has no price.
	ErrMissingPrice = errors.New("missing price")
	// ErrInvalidPrice is returned for negative or non-finite prices.
	ErrInvalidPrice = errors.New("invalid price")
)

// Select resolves names against the catalog and merges their prices.
func Select(c *Catalog, names []string, prices map[string]float64) ([]ration.Ingredient, error) {
	selected := make([]Entry, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q selected twice", ration.ErrDuplicateIngredient, name)
		}
		seen[name] = struct{}{}
		entry, err := c.Find(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, entry)
	}
	return MergePrices(selected, prices)
}

// MergePrices pairs each selected entry with its unit price. A zero price
// is accepted; the run file validator reports it.
func MergePrices(selected []Entry, prices map[string]float64) ([]ration.Ingredient, error) {
	ingredients := make([]ration.Ingredient, 0, len(selected))
	for _, e := range selected {
		price, ok := prices[e.Name]
		if !ok {
			return nil, fmt.Errorf("%w for %q", ErrMissingPrice, e.Name)
		}
		if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, fmt.Errorf("%w for %q: %v", ErrInvalidPrice, e.Name, price)
		}
		content := make(map[ration.NutrientID]float64, len(e.Content))
		for n, v := range e.Content {
			content[n] = v
		}
		ingredients = append(ingredients, ration.Ingredient{
			ID:        e.Name,
			Category:  e.Category,
			Content:   content,
			UnitPrice: price,
		})
	}
	return ingredients, nil
}
