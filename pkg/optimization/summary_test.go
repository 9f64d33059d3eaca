package optimization

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/feed-ration/internal/ration"
	"github.com/iwvelando/feed-ration/pkg/testutil"
)

func TestNewSummaryOptimal(t *testing.T) {
	sol := ration.Solution{
		Status:     ration.StatusOptimal,
		Quantities: map[string]float64{"Oilcake": 20, "Straw": 80, "Berseem": 0},
		TotalCost:  140.004,
		Achieved:   map[ration.NutrientID]float64{ration.TDN: 48, ration.Ca: 0, ration.CP: 8},
		Targets:    map[ration.NutrientID]float64{ration.TDN: 30, ration.Ca: 0.4, ration.CP: 8},
		Shortfalls: map[ration.NutrientID]bool{ration.Ca: true},
	}

	s := NewSummary("run-1", "Heifer", sol, testutil.ScenarioIngredients())
	if !s.Optimal() {
		t.Fatalf("expected optimal summary, got %q", s.Status)
	}
	if s.TotalCost != 140 {
		t.Errorf("expected cost rounded to 140, got %v", s.TotalCost)
	}

	want := []IngredientLine{
		{Name: "Oilcake", Category: "Concentrates", Quantity: 20, Share: 20, UnitPrice: 3, Cost: 60},
		{Name: "Straw", Category: "Dry Fodder", Quantity: 80, Share: 80, UnitPrice: 1, Cost: 80},
		{Name: "Berseem", Category: "Green Fodder", Quantity: 0, Share: 0, UnitPrice: 2, Cost: 0},
	}
	if diff := cmp.Diff(want, s.Ingredients); diff != "" {
		t.Errorf("ingredient rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Berseem is not used"}, s.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}

	if len(s.Nutrients) != len(ration.Nutrients) || s.Nutrients[0].Nutrient != "TDN" {
		t.Fatalf("expected nutrient rows in fixed order, got %+v", s.Nutrients)
	}
	short := s.Shortfalls()
	if len(short) != 1 || short[0].Nutrient != "Ca" || short[0].Target != 0.4 {
		t.Errorf("unexpected shortfalls %+v", short)
	}
}

func TestNewSummaryNotOptimal(t *testing.T) {
	sol := ration.Unavailable(nil)
	sol.Detail = "no LP solver backend configured"

	s := NewSummary("run-2", "Heifer", sol, testutil.ScenarioIngredients())
	if s.Optimal() || s.Status != "solver_unavailable" {
		t.Errorf("unexpected status %q", s.Status)
	}
	if s.Detail == "" || len(s.Ingredients) != 0 || len(s.Nutrients) != 0 {
		t.Errorf("expected detail only, got %+v", s)
	}
}
