// Package ration builds and interprets the least-cost feed ration linear
// program. Selected ingredients and an animal's nutrient profile are turned
// into a Model, handed to a Solver, and the solver output is read back into a
// Solution that reports quantities, cost and nutrient shortfalls.
package ration

import (
	"fmt"
	"strings"
)

// NutrientID identifies a tracked nutrient.
type NutrientID string

const (
	TDN NutrientID = "TDN" // total digestible nutrients
	ME  NutrientID = "ME"  // metabolisable energy
	Ca  NutrientID = "Ca"  // calcium
	P   NutrientID = "P"   // phosphorus
	CP  NutrientID = "CP"  // crude protein
)

// Nutrients is the fixed, ordered nutrient set. Slack variables and
// nutrient constraints follow this order.
var Nutrients = []NutrientID{TDN, ME, Ca, P, CP}

// ParseNutrient resolves a nutrient name case-insensitively.
func ParseNutrient(value string) (NutrientID, error) {
	trimmed := strings.TrimSpace(value)
	for _, n := range Nutrients {
		if strings.EqualFold(trimmed, string(n)) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown nutrient %q", value)
}

func knownNutrient(n NutrientID) bool {
	for _, known := range Nutrients {
		if n == known {
			return true
		}
	}
	return false
}

// Category groups ingredients; every ration draws from all of them.
type Category int

const (
	Concentrate Category = iota + 1
	DryFodder
	GreenFodder
)

// Categories lists every category in reporting order.
var Categories = []Category{Concentrate, DryFodder, GreenFodder}

func (c Category) String() string {
	switch c {
	case Concentrate:
		return "concentrate"
	case DryFodder:
		return "dry_fodder"
	case GreenFodder:
		return "green_fodder"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Label returns the display name used in reports.
func (c Category) Label() string {
	switch c {
	case Concentrate:
		return "Concentrates"
	case DryFodder:
		return "Dry Fodder"
	case GreenFodder:
		return "Green Fodder"
	default:
		return c.String()
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= Concentrate && c <= GreenFodder
}

// ParseCategory accepts the canonical names as well as the spreadsheet
// sheet names ("Concentrates", "Dry Fodder", "Green Fodder").
func ParseCategory(value string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "concentrate", "concentrates":
		return Concentrate, nil
	case "dryfodder", "dry":
		return DryFodder, nil
	case "greenfodder", "green":
		return GreenFodder, nil
	default:
		return 0, fmt.Errorf("unknown ingredient category %q", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown ingredient category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// NutrientProfile holds the required nutrient levels for one animal type.
// Targets are expressed per unit mass of ration (percent of the batch for
// percentage nutrients). A nutrient missing from Targets has a zero target.
type NutrientProfile struct {
	AnimalType string
	Targets    map[NutrientID]float64
}

// Target returns the requirement for n, zero when unset.
func (p NutrientProfile) Target(n NutrientID) float64 {
	return p.Targets[n]
}

// Ingredient is one candidate feedstuff with its merged unit price.
type Ingredient struct {
	ID        string
	Category  Category
	Content   map[NutrientID]float64
	UnitPrice float64
}

// Nutrient returns the content of n per unit mass, zero when unset.
func (i Ingredient) Nutrient(n NutrientID) float64 {
	return i.Content[n]
}
