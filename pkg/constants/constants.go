// Package constants provides shared constants for the feed-ration application.
package constants

// Ration model constants
const (
	// BatchMass is the reference ration mass; nutrient targets are percentages of it.
	BatchMass = 100.0

	// MinCategoryMass is the minimum mass drawn from every ingredient category.
	MinCategoryMass = 1.0

	// DefaultPenaltyFactor is the objective cost of one unit of nutrient shortfall.
	DefaultPenaltyFactor = 5.0

	// DefaultTolerance is used when interpreting solver output.
	DefaultTolerance = 1e-6

	// DefaultSolverTolerance is the reduced-cost tolerance handed to the simplex.
	DefaultSolverTolerance = 1e-10

	// DefaultSolver is the name of the LP backend used when none is configured.
	DefaultSolver = "simplex"

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa)
	CurrencyTolerance = 0.01

	// CurrencySymbol prefixes reported costs.
	CurrencySymbol = "Rs"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable summary format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMetricsPath is where Prometheus metrics are served
	DefaultMetricsPath = "/metrics"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultMaxIngredients caps the ingredient selection of one server request
	DefaultMaxIngredients = 64
)
