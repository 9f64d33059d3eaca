package server

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/feed-ration/internal/config"
	"github.com/iwvelando/feed-ration/pkg/constants"
)

func writeServerConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Errorf("expected default address, got %q", cfg.Address)
	}
	if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
		t.Errorf("expected default upload limit, got %d", cfg.UploadSizeBytes())
	}
	if cfg.MetricsPath != constants.DefaultMetricsPath {
		t.Errorf("expected default metrics path, got %q", cfg.MetricsPath)
	}
	if cfg.Limits.MaxIngredients != constants.DefaultMaxIngredients {
		t.Errorf("expected default ingredient cap, got %d", cfg.Limits.MaxIngredients)
	}
	if cfg.Optimizer.Solver != constants.DefaultSolver || cfg.Optimizer.BatchMass != constants.BatchMass {
		t.Errorf("expected normalized optimizer defaults, got %+v", cfg.Optimizer)
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeServerConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
		t.Errorf("expected default upload limit, got %d", cfg.UploadSizeBytes())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeServerConfig(t, `address: 127.0.0.1:9000
metricsPath: /internal/metrics
limits:
  maxUploadSize: 2M
  maxIngredients: 12
optimizer:
  batchMass: 1000
  minCategoryMass: 10
  solver: SIMPLEX
logging:
  level: debug
  format: console
`))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Errorf("expected address override, got %s", cfg.Address)
	}
	if cfg.MetricsPath != "/internal/metrics" {
		t.Errorf("expected metrics path override, got %q", cfg.MetricsPath)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Errorf("expected upload limit override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Limits.MaxIngredients != 12 {
		t.Errorf("expected ingredient cap 12, got %d", cfg.Limits.MaxIngredients)
	}
	if cfg.Optimizer.BatchMass != 1000 || cfg.Optimizer.MinCategoryMass != 10 {
		t.Errorf("expected optimizer overrides, got %+v", cfg.Optimizer)
	}
	if cfg.Optimizer.Solver != "simplex" {
		t.Errorf("expected canonical solver name, got %q", cfg.Optimizer.Solver)
	}
	if cfg.Optimizer.PenaltyFactor != constants.DefaultPenaltyFactor {
		t.Errorf("expected unset penalty to take the default, got %v", cfg.Optimizer.PenaltyFactor)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("expected logging overrides, got %+v", cfg.Logging)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		contains string
	}{
		{"bad upload size", "limits:\n  maxUploadSize: invalid\n", "invalid size"},
		{"zero upload size", "limits:\n  maxUploadSize: 0K\n", "must be positive"},
		{"negative ingredient cap", "limits:\n  maxIngredients: -1\n", "must not be negative"},
		{"relative metrics path", "metricsPath: metrics\n", "must start with /"},
		{"unknown field", "maxUploadSize: 2M\n", "field maxUploadSize not found"},
		{"unknown solver", "optimizer:\n  solver: cplex\n", `solver "cplex" is not available`},
		{"crowded batch", "optimizer:\n  batchMass: 10\n  minCategoryMass: 5\n", "leaves no room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeServerConfig(t, tt.contents))
			if err == nil {
				t.Fatal("expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestOverrideUploadSize(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.OverrideUploadSize("512K"); err != nil {
		t.Fatalf("OverrideUploadSize() error = %v", err)
	}
	if cfg.UploadSizeBytes() != 512*1024 || cfg.Limits.MaxUploadSize != "512K" {
		t.Errorf("expected 512K limit, got %d (%q)", cfg.UploadSizeBytes(), cfg.Limits.MaxUploadSize)
	}
	if err := cfg.OverrideUploadSize("lots"); err == nil {
		t.Error("expected error for an unparseable size")
	}
	if cfg.UploadSizeBytes() != 512*1024 {
		t.Errorf("failed override must keep the previous limit, got %d", cfg.UploadSizeBytes())
	}
}

func TestApplyTo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxIngredients = 2
	cfg.Optimizer.BatchMass = 1000
	cfg.Optimizer.PenaltyFactor = 50

	price := 1.0
	run := &config.Configuration{
		Optimizer: config.OptimizerConfig{PenaltyFactor: 7},
		Ration: config.RationConfig{
			AnimalType:  "Heifer",
			Ingredients: []config.IngredientSelection{{Name: "Straw", Price: &price}},
		},
	}
	if err := cfg.ApplyTo(run); err != nil {
		t.Fatalf("ApplyTo() error = %v", err)
	}
	if run.Optimizer.BatchMass != 1000 {
		t.Errorf("expected server batch mass, got %v", run.Optimizer.BatchMass)
	}
	if run.Optimizer.PenaltyFactor != 7 {
		t.Errorf("expected run file penalty to win, got %v", run.Optimizer.PenaltyFactor)
	}
	if run.Optimizer.Solver != constants.DefaultSolver {
		t.Errorf("expected server solver, got %q", run.Optimizer.Solver)
	}

	run.Ration.Ingredients = append(run.Ration.Ingredients,
		config.IngredientSelection{Name: "Berseem", Price: &price},
		config.IngredientSelection{Name: "Oilcake", Price: &price},
	)
	if err := cfg.ApplyTo(run); !errors.Is(err, ErrTooManyIngredients) {
		t.Errorf("expected ErrTooManyIngredients, got %v", err)
	}

	cfg.Limits.MaxIngredients = 0
	if err := cfg.ApplyTo(run); err != nil {
		t.Errorf("a zero cap must not limit the selection, got %v", err)
	}
	if err := cfg.ApplyTo(nil); err == nil {
		t.Error("expected error for a nil run configuration")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"8 kb":      8 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, input := range []string{"1TB", "abc", "-5K", "1.5M", "K"} {
		if _, err := ParseSize(input); err == nil {
			t.Errorf("ParseSize(%q) expected error", input)
		}
	}
}

func TestParseSizeOverflow(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		// (2^34+1) GiB wraps past int64 to a positive 1 GiB without the bound check.
		{"17179869185G", true},
		{"9223372036854775807", false},
		{"9223372036854775807K", true},
		{"8589934591G", false},
		{"8589934592G", true},
		{"99999999999999999999", true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSize(%q) = %d, expected overflow error", tt.input, got)
			}
			continue
		}
		if err != nil || got <= 0 {
			t.Errorf("ParseSize(%q) = %d, %v; expected a positive size", tt.input, got, err)
		}
	}
}
