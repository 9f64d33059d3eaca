package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/feed-ration/internal/config"
	"github.com/iwvelando/feed-ration/pkg/constants"
	"gopkg.in/yaml.v3"
)

// ErrTooManyIngredients is returned when an uploaded ration selects more
// ingredients than the server accepts.
var ErrTooManyIngredients = errors.New("too many ingredients selected")

// Config is the ration server's runtime configuration.
type Config struct {
	Address     string                 `yaml:"address"`
	MetricsPath string                 `yaml:"metricsPath"`
	Limits      Limits                 `yaml:"limits"`
	Optimizer   config.OptimizerConfig `yaml:"optimizer"`
	Logging     config.LoggingConfig   `yaml:"logging"`
}

// Limits bounds what a single request may ask of the server.
type Limits struct {
	MaxUploadSize  string `yaml:"maxUploadSize"`
	MaxIngredients int    `yaml:"maxIngredients"`
	uploadBytes    int64
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		Address:     constants.DefaultServerAddress,
		MetricsPath: constants.DefaultMetricsPath,
		Limits: Limits{
			MaxIngredients: constants.DefaultMaxIngredients,
			uploadBytes:    constants.DefaultMaxUploadSizeBytes,
		},
	}
	cfg.Limits.MaxUploadSize = strconv.FormatInt(cfg.Limits.uploadBytes, 10)
	cfg.Optimizer.Normalize()
	return cfg
}

// LoadConfig reads the server configuration at path. A missing file yields
// DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.MetricsPath == "" {
		c.MetricsPath = constants.DefaultMetricsPath
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("metricsPath %q must start with /", c.MetricsPath)
	}

	if err := c.Limits.setUploadSize(c.Limits.MaxUploadSize); err != nil {
		return err
	}
	if c.Limits.MaxIngredients < 0 {
		return fmt.Errorf("limits.maxIngredients %d must not be negative", c.Limits.MaxIngredients)
	}

	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("server %w", err)
	}
	if !c.Optimizer.KnownSolver() {
		return fmt.Errorf("server optimizer solver %q is not available", c.Optimizer.Solver)
	}
	return nil
}

// UploadSizeBytes returns the request body limit in bytes.
func (c *Config) UploadSizeBytes() int64 {
	if c.Limits.uploadBytes <= 0 {
		return constants.DefaultMaxUploadSizeBytes
	}
	return c.Limits.uploadBytes
}

// OverrideUploadSize replaces the request body limit with a size string
// such as "512K".
func (c *Config) OverrideUploadSize(value string) error {
	return c.Limits.setUploadSize(value)
}

func (l *Limits) setUploadSize(value string) error {
	if strings.TrimSpace(value) == "" {
		l.uploadBytes = constants.DefaultMaxUploadSizeBytes
		l.MaxUploadSize = strconv.FormatInt(l.uploadBytes, 10)
		return nil
	}
	n, err := ParseSize(value)
	if err != nil {
		return fmt.Errorf("limits.maxUploadSize: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("limits.maxUploadSize must be positive")
	}
	l.uploadBytes = n
	l.MaxUploadSize = value
	return nil
}

// ApplyTo enforces the server limits on an uploaded run file and fills its
// unset optimizer fields from the server's optimizer section.
func (c *Config) ApplyTo(run *config.Configuration) error {
	if run == nil {
		return fmt.Errorf("run configuration cannot be nil")
	}
	if limit := c.Limits.MaxIngredients; limit > 0 && len(run.Ration.Ingredients) > limit {
		return fmt.Errorf("%w: %d selected, at most %d allowed",
			ErrTooManyIngredients, len(run.Ration.Ingredients), limit)
	}

	o, d := &run.Optimizer, c.Optimizer
	if o.PenaltyFactor == 0 {
		o.PenaltyFactor = d.PenaltyFactor
	}
	if o.BatchMass == 0 {
		o.BatchMass = d.BatchMass
	}
	if o.MinCategoryMass == 0 {
		o.MinCategoryMass = d.MinCategoryMass
	}
	if o.Tolerance == 0 {
		o.Tolerance = d.Tolerance
	}
	if strings.TrimSpace(o.Solver) == "" {
		o.Solver = d.Solver
	}
	if o.SolverTolerance == 0 {
		o.SolverTolerance = d.SolverTolerance
	}
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a byte count with an optional binary unit suffix
// ("256K", "10MB") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	split := strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	if split == -1 {
		split = len(trimmed)
	}
	if split == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	multiplier, ok := sizeUnits[strings.TrimSpace(trimmed[split:])]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", strings.TrimSpace(trimmed[split:]))
	}
	n, err := strconv.ParseInt(trimmed[:split], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
