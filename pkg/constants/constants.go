// Package constants provides shared constants for the casa-finan application.
package constants

// DateTimeLayout is the month key used in schedule rows and chart output.
const DateTimeLayout = "2006-01"

// StartDateLayout is the format expected for the plan start date.
const StartDateLayout = "2006-01-02"

// MonthYearLayout is the human-readable format used for last-payment labels.
const MonthYearLayout = "January/2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Default plan parameters applied when a plan omits them.
const (
	// DefaultTotalBalance is the default financed amount
	DefaultTotalBalance = 450000.0

	// DefaultAnnualInterestRate is the default annual interest rate in percent
	DefaultAnnualInterestRate = 7.5

	// DefaultTermMonths is the default financing term
	DefaultTermMonths = 120

	// DefaultPayerCount is the number of payers in the default plan
	DefaultPayerCount = 3

	// DefaultDownPayment is the default down payment per payer
	DefaultDownPayment = 50000.0
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
	// DefaultConfigFile is the default plan file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example plan file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML plans (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultSessionTTL is how long saved sessions live before expiring
	DefaultSessionTTL = "24h"
)
