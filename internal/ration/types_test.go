package ration_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/feed-ration/internal/ration"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    ration.Category
		wantErr bool
	}{
		{"concentrate", ration.Concentrate, false},
		{"Concentrates", ration.Concentrate, false},
		{"Dry Fodder", ration.DryFodder, false},
		{"dry_fodder", ration.DryFodder, false},
		{" green-fodder ", ration.GreenFodder, false},
		{"Green", ration.GreenFodder, false},
		{"silage", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ration.ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, expected %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategoryText(t *testing.T) {
	for _, c := range ration.Categories {
		text, err := c.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", c, err)
		}
		var back ration.Category
		if err := back.UnmarshalText(text); err != nil || back != c {
			t.Errorf("round trip of %v gave %v (%v)", c, back, err)
		}
	}
	if _, err := ration.Category(0).MarshalText(); err == nil {
		t.Errorf("expected error marshalling an unknown category")
	}
	if got := ration.DryFodder.Label(); got != "Dry Fodder" {
		t.Errorf("Label() = %q, expected %q", got, "Dry Fodder")
	}
}

func TestParseNutrient(t *testing.T) {
	for _, input := range []string{"tdn", "ME", " ca ", "p", "Cp"} {
		if _, err := ration.ParseNutrient(input); err != nil {
			t.Errorf("ParseNutrient(%q) error = %v", input, err)
		}
	}
	if _, err := ration.ParseNutrient("NDF"); err == nil {
		t.Errorf("expected error for unknown nutrient")
	}
}

func TestModelConstructionErrorMessage(t *testing.T) {
	err := &ration.ModelConstructionError{Kind: ration.ErrDuplicateIngredient, Detail: `"Straw" appears more than once`}
	if !errors.Is(err, ration.ErrDuplicateIngredient) {
		t.Errorf("expected error to unwrap to its kind")
	}
	if !strings.Contains(err.Error(), "duplicate ingredient id") || !strings.Contains(err.Error(), "Straw") {
		t.Errorf("unexpected message %q", err.Error())
	}
	bare := &ration.ModelConstructionError{Kind: ration.ErrInvalidOptions}
	if bare.Error() != "model construction: invalid model options" {
		t.Errorf("unexpected message %q", bare.Error())
	}
}
