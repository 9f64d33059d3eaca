package ration_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/feed-ration/internal/ration"
	"github.com/iwvelando/feed-ration/pkg/testutil"
)

func TestBuildModelStructure(t *testing.T) {
	ingredients := testutil.ScenarioIngredients()
	profile := testutil.ScenarioProfile()

	model, err := ration.BuildModel(ingredients, profile, ration.DefaultOptions())
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}

	if model.NumDecision() != len(ingredients) {
		t.Fatalf("expected %d decision variables, got %d", len(ingredients), model.NumDecision())
	}
	if model.NumSlack() != len(ration.Nutrients) {
		t.Fatalf("expected %d slack variables, got %d", len(ration.Nutrients), model.NumSlack())
	}
	if len(model.Variables) != len(ingredients)+len(ration.Nutrients) {
		t.Fatalf("unexpected variable count %d", len(model.Variables))
	}
	for j, v := range model.Variables {
		if v.Lower != 0 || !math.IsInf(v.Upper, 1) {
			t.Errorf("variable %s has bounds [%v, %v], expected [0, +Inf)", v.Name, v.Lower, v.Upper)
		}
		wantKind := ration.DecisionVariable
		if j >= len(ingredients) {
			wantKind = ration.SlackVariable
		}
		if v.Kind != wantKind {
			t.Errorf("variable %s kind = %v, expected %v", v.Name, v.Kind, wantKind)
		}
	}

	wantObjective := []float64{3, 1, 2, 5, 5, 5, 5, 5}
	if diff := cmp.Diff(wantObjective, model.Objective); diff != "" {
		t.Errorf("objective mismatch (-want +got):\n%s", diff)
	}

	// 5 nutrient rows, 1 mass row, 3 category rows.
	if len(model.Constraints) != 9 {
		t.Fatalf("expected 9 constraints, got %d", len(model.Constraints))
	}

	byName := make(map[string]ration.Constraint)
	for _, c := range model.Constraints {
		byName[c.Name] = c
	}

	cp, ok := byName["nutrient_CP"]
	if !ok {
		t.Fatalf("missing CP constraint")
	}
	if cp.Sense != ration.GreaterEqual || cp.RHS != 800 {
		t.Errorf("CP constraint = %s %v, expected >= 800", cp.Sense, cp.RHS)
	}
	// Oilcake content, zeros for the others, then slack_CP (last nutrient).
	if diff := cmp.Diff([]float64{40, 0, 0, 0, 0, 0, 0, 1}, cp.Coefficients); diff != "" {
		t.Errorf("CP row mismatch (-want +got):\n%s", diff)
	}

	mass := byName["batch_mass"]
	if mass.Sense != ration.Equal || mass.RHS != 100 {
		t.Errorf("mass constraint = %s %v, expected = 100", mass.Sense, mass.RHS)
	}
	if diff := cmp.Diff([]float64{1, 1, 1, 0, 0, 0, 0, 0}, mass.Coefficients); diff != "" {
		t.Errorf("mass row mismatch (-want +got):\n%s", diff)
	}

	green := byName["category_green_fodder"]
	if green.Sense != ration.GreaterEqual || green.RHS != 1 {
		t.Errorf("green fodder constraint = %s %v, expected >= 1", green.Sense, green.RHS)
	}
	if diff := cmp.Diff([]float64{0, 0, 1, 0, 0, 0, 0, 0}, green.Coefficients); diff != "" {
		t.Errorf("green fodder row mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(model.String(), "batch_mass: 1 qty_Oilcake + 1 qty_Straw + 1 qty_Berseem = 100") {
		t.Errorf("unexpected model rendering:\n%s", model.String())
	}
}

func TestBuildModelScalesWithOptions(t *testing.T) {
	opts := ration.Options{PenaltyFactor: 50, BatchMass: 1000, MinCategoryMass: 10}
	model, err := ration.BuildModel(testutil.ScenarioIngredients(), testutil.ScenarioProfile(), opts)
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	for _, c := range model.Constraints {
		switch {
		case c.Name == "nutrient_TDN" && c.RHS != 30000:
			t.Errorf("TDN rhs = %v, expected 30000", c.RHS)
		case c.Name == "batch_mass" && c.RHS != 1000:
			t.Errorf("mass rhs = %v, expected 1000", c.RHS)
		case strings.HasPrefix(c.Name, "category_") && c.RHS != 10:
			t.Errorf("%s rhs = %v, expected 10", c.Name, c.RHS)
		}
	}
	if model.Objective[len(model.Objective)-1] != 50 {
		t.Errorf("expected slack penalty 50, got %v", model.Objective[len(model.Objective)-1])
	}
}

func TestBuildModelKeepsZeroContentNutrients(t *testing.T) {
	profile := testutil.ScenarioProfile()
	profile.Targets[ration.P] = 0.5

	model, err := ration.BuildModel(testutil.ScenarioIngredients(), profile, ration.DefaultOptions())
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	for _, c := range model.Constraints {
		if c.Name != "nutrient_P" {
			continue
		}
		if c.RHS != 50 {
			t.Errorf("P rhs = %v, expected 50", c.RHS)
		}
		for j := 0; j < model.NumDecision(); j++ {
			if c.Coefficients[j] != 0 {
				t.Errorf("expected zero P content, got %v at %d", c.Coefficients[j], j)
			}
		}
		return
	}
	t.Fatalf("missing P constraint")
}

func TestBuildModelPreconditions(t *testing.T) {
	base := testutil.ScenarioIngredients

	tests := []struct {
		name        string
		ingredients func() []ration.Ingredient
		profile     func() ration.NutrientProfile
		opts        ration.Options
		want        error
	}{
		{
			name:        "empty selection",
			ingredients: func() []ration.Ingredient { return nil },
			want:        ration.ErrInsufficientCategoryCoverage,
		},
		{
			name:        "missing green fodder",
			ingredients: func() []ration.Ingredient { return base()[:2] },
			want:        ration.ErrInsufficientCategoryCoverage,
		},
		{
			name: "duplicate id",
			ingredients: func() []ration.Ingredient {
				ings := base()
				dup := ings[1]
				dup.Category = ration.GreenFodder
				return append(ings, dup)
			},
			want: ration.ErrDuplicateIngredient,
		},
		{
			name: "empty id",
			ingredients: func() []ration.Ingredient {
				ings := base()
				ings[0].ID = "  "
				return ings
			},
			want: ration.ErrInvalidIngredient,
		},
		{
			name: "negative price",
			ingredients: func() []ration.Ingredient {
				ings := base()
				ings[0].UnitPrice = -1
				return ings
			},
			want: ration.ErrInvalidIngredient,
		},
		{
			name: "NaN content",
			ingredients: func() []ration.Ingredient {
				ings := base()
				ings[2].Content[ration.Ca] = math.NaN()
				return ings
			},
			want: ration.ErrInvalidIngredient,
		},
		{
			name: "unknown nutrient",
			ingredients: func() []ration.Ingredient {
				ings := base()
				ings[2].Content["Mg"] = 1
				return ings
			},
			want: ration.ErrInvalidIngredient,
		},
		{
			name: "unknown category",
			ingredients: func() []ration.Ingredient {
				ings := base()
				ings[2].Category = ration.Category(9)
				return ings
			},
			want: ration.ErrInvalidIngredient,
		},
		{
			name: "negative target",
			profile: func() ration.NutrientProfile {
				p := testutil.ScenarioProfile()
				p.Targets[ration.CP] = -2
				return p
			},
			want: ration.ErrInvalidProfile,
		},
		{
			name: "infinite target",
			profile: func() ration.NutrientProfile {
				p := testutil.ScenarioProfile()
				p.Targets[ration.TDN] = math.Inf(1)
				return p
			},
			want: ration.ErrInvalidProfile,
		},
		{
			name: "negative penalty",
			opts: ration.Options{PenaltyFactor: -5},
			want: ration.ErrInvalidOptions,
		},
		{
			name: "category minimum exceeds batch",
			opts: ration.Options{BatchMass: 2, MinCategoryMass: 1},
			want: ration.ErrInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingredients := base()
			if tt.ingredients != nil {
				ingredients = tt.ingredients()
			}
			profile := testutil.ScenarioProfile()
			if tt.profile != nil {
				profile = tt.profile()
			}

			model, err := ration.BuildModel(ingredients, profile, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var ce *ration.ModelConstructionError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ModelConstructionError, got %T", err)
			}
			if model != nil {
				t.Fatalf("expected no model on error")
			}
		})
	}
}

func TestModelValueSplits(t *testing.T) {
	model, err := ration.BuildModel(testutil.ScenarioIngredients(), testutil.ScenarioProfile(), ration.Options{})
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	values := []float64{20, 60, 20, 0, 0, 7, 0, 0}

	if diff := cmp.Diff([]float64{20, 60, 20}, model.DecisionValues(values)); diff != "" {
		t.Errorf("decision values mismatch (-want +got):\n%s", diff)
	}
	slack := model.SlackValues(values)
	if slack[ration.Ca] != 7 || len(slack) != len(ration.Nutrients) {
		t.Errorf("unexpected slack values %v", slack)
	}
	if model.DecisionValues(values[:2]) != nil || model.SlackValues(values[:4]) != nil {
		t.Errorf("expected nil for short value vectors")
	}
}
