// Package constants provides shared constants for the price-optimizer application.
package constants

// Numeric tolerances
const (
	// BoundaryTolerance guards the used-boundary comparison against
	// floating-point noise when the unconstrained optimum sits exactly on
	// one of the price bounds.
	BoundaryTolerance = 1e-12

	// PriceVarianceTolerance is the Sxx threshold below which all observed
	// prices are treated as identical and the regression slope as undefined.
	PriceVarianceTolerance = 1e-12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
