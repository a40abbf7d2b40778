// Package constants provides shared constants for the utangku application.
package constants

// DateLayout is the calendar-day format used for due dates and API payloads.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// BalanceTolerance is the threshold below which a simulated balance is
	// treated as fully amortized (one whole currency unit)
	BalanceTolerance = 1.0

	// MaxProjectionMonths caps every month-stepped simulation at 30 years
	MaxProjectionMonths = 360

	// ChartPointBudget is the series length beyond which projections are
	// downsampled to every other month
	ChartPointBudget = 60

	// ProxyAnnualRate is the flat annual rate used only for the projector's
	// cross-debt interest-cost estimate
	ProxyAnnualRate = 12.0
)

// Projection strategies and modes
const (
	StrategySnowball  = "snowball"
	StrategyAvalanche = "avalanche"

	ModeLumpSum = "lump_sum"
	ModeCutoff  = "cutoff"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultDSRThreshold is the default debt-service-ratio warning threshold
	// expressed as a percentage of monthly income
	DefaultDSRThreshold = 35.0
)
