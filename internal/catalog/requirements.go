package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/feed-ration/internal/ration"
)

// ErrUnknownAnimalType is returned when no requirement row matches.
var ErrUnknownAnimalType = errors.New("unknown animal type")

// RequirementRow is one animal type's nutrient requirements as written in a
// run file, per unit mass of ration.
type RequirementRow struct {
	Type string  `mapstructure:"type" json:"type" validate:"required"`
	TDN  float64 `mapstructure:"tdn" json:"tdn" validate:"gte=0"`
	ME   float64 `mapstructure:"me" json:"me" validate:"gte=0"`
	Ca   float64 `mapstructure:"ca" json:"ca" validate:"gte=0"`
	P    float64 `mapstructure:"p" json:"p" validate:"gte=0"`
	CP   float64 `mapstructure:"cp" json:"cp" validate:"gte=0"`
}

// Requirements maps animal types to nutrient profiles.
type Requirements struct {
	profiles map[string]ration.NutrientProfile
}

// NewRequirements validates rows and indexes them by animal type.
func NewRequirements(rows []RequirementRow) (*Requirements, error) {
	r := &Requirements{profiles: make(map[string]ration.NutrientProfile, len(rows))}
	for i, row := range rows {
		row.Type = strings.TrimSpace(row.Type)
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("%w: requirement at position %d (%q): %v", ErrInvalidRow, i, row.Type, err)
		}
		if _, dup := r.profiles[row.Type]; dup {
			return nil, fmt.Errorf("%w: requirements for %q listed twice", ErrDuplicateEntry, row.Type)
		}
		r.profiles[row.Type] = ration.NutrientProfile{
			AnimalType: row.Type,
			Targets: map[ration.NutrientID]float64{
				ration.TDN: row.TDN,
				ration.ME:  row.ME,
				ration.Ca:  row.Ca,
				ration.P:   row.P,
				ration.CP:  row.CP,
			},
		}
	}
	return r, nil
}

// Profile returns the nutrient profile for animalType. An exact match wins;
// otherwise a unique case-insensitive match is accepted.
func (r *Requirements) Profile(animalType string) (ration.NutrientProfile, error) {
	key := strings.TrimSpace(animalType)
	if p, ok := r.profiles[key]; ok {
		return copyProfile(p), nil
	}
	var found []ration.NutrientProfile
	for name, p := range r.profiles {
		if strings.EqualFold(name, key) {
			found = append(found, p)
		}
	}
	if len(found) == 1 {
		return copyProfile(found[0]), nil
	}
	return ration.NutrientProfile{}, fmt.Errorf("%w %q", ErrUnknownAnimalType, animalType)
}

// AnimalTypes returns the known animal types, sorted.
func (r *Requirements) AnimalTypes() []string {
	types := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

func copyProfile(p ration.NutrientProfile) ration.NutrientProfile {
	targets := make(map[ration.NutrientID]float64, len(p.Targets))
	for n, v := range p.Targets {
		targets[n] = v
	}
	return ration.NutrientProfile{AnimalType: p.AnimalType, Targets: targets}
}
