// Package catalog holds the feedstuff and nutrient requirement tables that
// rations are built from, and merges user prices into ration ingredients.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/feed-ration/internal/ration"
)

var (
	// ErrUnknownIngredient is returned when a name is not in the catalog.
	ErrUnknownIngredient = errors.New("unknown ingredient")
	// ErrAmbiguousIngredient is returned when a name exists in more than one category.
	ErrAmbiguousIngredient = errors.New("ambiguous ingredient")
	// ErrDuplicateEntry is returned when a category lists the same name twice.
	ErrDuplicateEntry = errors.New("duplicate catalog entry")
	// ErrInvalidRow is returned when a row fails field validation.
	ErrInvalidRow = errors.New("invalid catalog row")
)

var validate = validator.New()

// Row is one feedstuff as written in a run file. Nutrient values are per
// unit mass of the feedstuff.
type Row struct {
	Name     string  `mapstructure:"name" json:"name" validate:"required"`
	Category string  `mapstructure:"category" json:"category" validate:"required"`
	TDN      float64 `mapstructure:"tdn" json:"tdn" validate:"gte=0"`
	ME       float64 `mapstructure:"me" json:"me" validate:"gte=0"`
	Ca       float64 `mapstructure:"ca" json:"ca" validate:"gte=0"`
	P        float64 `mapstructure:"p" json:"p" validate:"gte=0"`
	CP       float64 `mapstructure:"cp" json:"cp" validate:"gte=0"`
}

func (r Row) content() map[ration.NutrientID]float64 {
	return map[ration.NutrientID]float64{
		ration.TDN: r.TDN,
		ration.ME:  r.ME,
		ration.Ca:  r.Ca,
		ration.P:   r.P,
		ration.CP:  r.CP,
	}
}

// Entry is a validated catalog feedstuff.
type Entry struct {
	Name     string
	Category ration.Category
	Content  map[ration.NutrientID]float64
}

// HasNutrients reports whether any nutrient content is positive.
func (e Entry) HasNutrients() bool {
	for _, v := range e.Content {
		if v > 0 {
			return true
		}
	}
	return false
}

// Catalog is the set of available feedstuffs keyed by category.
type Catalog struct {
	entries map[ration.Category][]Entry
	index   map[ration.Category]map[string]int
}

// New validates rows and builds a Catalog. Names are unique within a
// category but may repeat across categories.
func New(rows []Row) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[ration.Category][]Entry, len(ration.Categories)),
		index:   make(map[ration.Category]map[string]int, len(ration.Categories)),
	}
	for i, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("%w at position %d (%q): %v", ErrInvalidRow, i, row.Name, err)
		}
		cat, err := ration.ParseCategory(row.Category)
		if err != nil {
			return nil, fmt.Errorf("%w at position %d (%q): %v", ErrInvalidRow, i, row.Name, err)
		}
		if c.index[cat] == nil {
			c.index[cat] = make(map[string]int)
		}
		if _, dup := c.index[cat][row.Name]; dup {
			return nil, fmt.Errorf("%w: %q listed twice under %s", ErrDuplicateEntry, row.Name, cat.Label())
		}
		c.index[cat][row.Name] = len(c.entries[cat])
		c.entries[cat] = append(c.entries[cat], Entry{Name: row.Name, Category: cat, Content: row.content()})
	}
	return c, nil
}

// Len returns the number of entries across all categories.
func (c *Catalog) Len() int {
	n := 0
	for _, entries := range c.entries {
		n += len(entries)
	}
	return n
}

// Lookup returns the entry with name in category.
func (c *Catalog) Lookup(category ration.Category, name string) (Entry, bool) {
	idx, ok := c.index[category][name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[category][idx], true
}

// ByCategory returns the entries of one category in catalog order.
func (c *Catalog) ByCategory(category ration.Category) []Entry {
	return append([]Entry(nil), c.entries[category]...)
}

// Find resolves a name across all categories.
func (c *Catalog) Find(name string) (Entry, error) {
	var matches []Entry
	for _, cat := range ration.Categories {
		if e, ok := c.Lookup(cat, name); ok {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return Entry{}, fmt.Errorf("%w %q", ErrUnknownIngredient, name)
	case 1:
		return matches[0], nil
	default:
		labels := make([]string, len(matches))
		for i, m := range matches {
			labels[i] = m.Category.Label()
		}
		return Entry{}, fmt.Errorf("%w %q found in %s", ErrAmbiguousIngredient, name, strings.Join(labels, ", "))
	}
}

// Names returns every entry name, sorted.
func (c *Catalog) Names() []string {
	var names []string
	for _, cat := range ration.Categories {
		for _, e := range c.entries[cat] {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}
