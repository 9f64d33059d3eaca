package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/feed-ration/internal/catalog"
	"github.com/iwvelando/feed-ration/internal/ration"
)

const testConfigPath = "../../test/test_config.yaml"

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Test configuration",
			configPath: testConfigPath,
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "info" || config.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", config.Logging)
	}
	if config.Output.Format != "pretty" {
		t.Errorf("Expected output format pretty, got %q", config.Output.Format)
	}
	if config.Optimizer.PenaltyFactor != 5 || config.Optimizer.Solver != "simplex" {
		t.Errorf("unexpected optimizer config %+v", config.Optimizer)
	}
	if config.Optimizer.SolverTolerance != 1e-10 {
		t.Errorf("Expected solverTolerance 1e-10, got %v", config.Optimizer.SolverTolerance)
	}

	if len(config.Catalog) != 11 {
		t.Errorf("Expected 11 catalog rows, got %d", len(config.Catalog))
	}
	first := config.Catalog[0]
	if first.Name != "Maize Grain" || first.Category != "Concentrates" || first.TDN != 80 || first.CP != 9 {
		t.Errorf("unexpected first catalog row %+v", first)
	}
	if len(config.Requirements) != 3 || config.Requirements[0].Type != "Dairy cow" {
		t.Errorf("unexpected requirements %+v", config.Requirements)
	}

	if config.Ration.AnimalType != "Dairy cow" {
		t.Errorf("Expected animal type Dairy cow, got %q", config.Ration.AnimalType)
	}
	if len(config.Ration.Ingredients) != 7 {
		t.Fatalf("Expected 7 selected ingredients, got %d", len(config.Ration.Ingredients))
	}
	if p := config.Ration.Ingredients[1].Price; p == nil || *p != 45 {
		t.Errorf("Expected Groundnut Cake price 45, got %v", p)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	doc := `
optimizer:
  penaltyFactor: 12
catalog:
  - {name: Oilcake, category: concentrate, cp: 40}
  - {name: Straw, category: dry fodder, tdn: 60}
  - {name: Berseem, category: green fodder, ca: 2}
requirements:
  - {type: Heifer, tdn: 30, ca: 0.4, cp: 8}
ration:
  animalType: Heifer
  ingredients:
    - {name: Oilcake, price: 3}
    - {name: Straw, price: 1}
    - {name: Berseem}
`
	config, err := LoadConfigurationFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Optimizer.PenaltyFactor != 12 {
		t.Errorf("Expected penaltyFactor 12, got %v", config.Optimizer.PenaltyFactor)
	}

	names := config.SelectedNames()
	if strings.Join(names, ",") != "Oilcake,Straw,Berseem" {
		t.Errorf("unexpected selection %v", names)
	}
	prices := config.Prices()
	if len(prices) != 2 || prices["Straw"] != 1 {
		t.Errorf("unexpected prices %v", prices)
	}
	if _, ok := prices["Berseem"]; ok {
		t.Errorf("selection without a price must not appear in prices")
	}

	cat, err := config.BuildCatalog()
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}
	if _, err := catalog.Select(cat, names, prices); !errors.Is(err, catalog.ErrMissingPrice) {
		t.Errorf("expected ErrMissingPrice, got %v", err)
	}

	req, err := config.BuildRequirements()
	if err != nil {
		t.Fatalf("BuildRequirements() error = %v", err)
	}
	profile, err := req.Profile(config.Ration.AnimalType)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Target(ration.CP) != 8 || profile.Target(ration.ME) != 0 {
		t.Errorf("unexpected profile %+v", profile)
	}
}

func TestLoadConfigurationFromReaderInvalidYAML(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("catalog: [unterminated")); err == nil {
		t.Errorf("expected error for malformed YAML")
	}
}

func TestLoggingConfiguration(t *testing.T) {
	config := Configuration{
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "console",
		},
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected logging level 'debug', got '%s'", config.Logging.Level)
	}
	if config.Logging.Format != "console" {
		t.Errorf("Expected logging format 'console', got '%s'", config.Logging.Format)
	}

	emptyConfig := Configuration{}
	if emptyConfig.Logging.Level != "" || emptyConfig.Logging.Format != "" {
		t.Errorf("Expected empty logging config, got %+v", emptyConfig.Logging)
	}
}
