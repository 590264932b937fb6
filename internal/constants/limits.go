package constants

// Version of the calendar-engine CLI and library
const Version = "1.0.0"

// Interchange range: every instant handled by the engine must fall on a
// proleptic Gregorian date between 0001-01-01 and 9999-12-31.
const (
	// MinGregorianYear is the first year representable by the interchange range
	MinGregorianYear = 1

	// MaxGregorianYear is the last year representable by the interchange range
	MaxGregorianYear = 9999
)

// Persian calendar limits
const (
	// MinPersianYear keeps conversions after the 1582 Gregorian reform
	// (962/01/01 AP falls on 1583-03-21)
	MinPersianYear = 962

	// MaxPersianYear is the last year whose Nowruz precedes 9999-12-31
	MaxPersianYear = 9378
)

// Hijri (tabular Islamic) calendar limits
const (
	MinHijriYear = 1
	MaxHijriYear = 9666

	// HijriEpochJulianDay is 1 Muharram 1 AH, civil epoch (Friday 16 July 622 Julian)
	HijriEpochJulianDay = 1948440

	// MaxHijriAdjustment bounds the day offset applied to the tabular calendar
	MaxHijriAdjustment = 2
)

// Formatting defaults
const (
	// DefaultPattern is used when neither the caller nor the config names one
	DefaultPattern = "yyyy/MM/dd"

	// DefaultConfigFile is looked up in the working directory
	DefaultConfigFile = "calendar-engine.toml"
)

// Logging defaults
const (
	DefaultLogLevel           = "info"
	DefaultLogFilenamePattern = "calendar-engine-%Y%m%d.log"
)
