package calendar

import "time"

// Converter translates between one calendar's civil dates and instants and
// renders instants in that calendar's notation.
//
// Implementations must be immutable and safe for concurrent use.
type Converter interface {
	// Kind reports which calendar the converter implements
	Kind() Kind

	// ToInstant returns midnight UTC of d. It fails with *OutOfRangeError when
	// d does not exist in the calendar or falls outside its supported range.
	ToInstant(d CivilDate) (time.Time, error)

	// FromInstant returns the calendar date of t, read in t's location
	FromInstant(t time.Time) (CivilDate, error)

	// FormatInstant renders t with pattern. Calendar fields take this
	// calendar's values; names, time of day and digits follow loc. A zero
	// Locale selects DefaultLocale.
	FormatInstant(t time.Time, pattern string, loc Locale) (string, error)

	// DefaultLocale is the culture used when the caller does not pick one
	DefaultLocale() Locale
}

// builtins is the closed set of calendars shipped with the package, indexed
// by Kind. Every built-in Kind has exactly one entry.
var builtins = [...]func() Converter{
	Gregorian: NewGregorian,
	Persian:   NewPersian,
	Hijri:     func() Converter { return hijriConverter{} },
}

// builtin returns the stock converter for k, or nil for non built-in kinds
func builtin(k Kind) Converter {
	if !k.isBuiltin() {
		return nil
	}
	return builtins[k]()
}

// validateCivil checks month and day against a calendar's month lengths.
// Year bounds are the caller's responsibility.
func validateCivil(k Kind, d CivilDate, daysIn func(year, month int) int) error {
	if d.Month < 1 || d.Month > 12 {
		return outOfRange(k, d.String(), "month %d not in 1..12", d.Month)
	}
	if n := daysIn(d.Year, d.Month); d.Day < 1 || d.Day > n {
		return outOfRange(k, d.String(), "day %d not in 1..%d", d.Day, n)
	}
	return nil
}

// checkInterchange rejects instants whose Gregorian date falls outside
// 0001-01-01 .. 9999-12-31.
func checkInterchange(k Kind, value string, t time.Time) error {
	if y := t.Year(); y < minInterchangeYear || y > maxInterchangeYear {
		return outOfRange(k, value, "instant %s outside 0001-01-01..9999-12-31", isoDate(t))
	}
	return nil
}
