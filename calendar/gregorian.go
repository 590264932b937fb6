package calendar

import (
	"time"

	"github.com/nowwaveradio/calendar-engine/internal/constants"
)

const (
	minInterchangeYear = constants.MinGregorianYear
	maxInterchangeYear = constants.MaxGregorianYear
)

// gregorianConverter is the identity calendar: its civil dates are the
// instants' own proleptic Gregorian dates.
type gregorianConverter struct{}

// NewGregorian returns the proleptic Gregorian converter
func NewGregorian() Converter {
	return gregorianConverter{}
}

func (gregorianConverter) Kind() Kind { return Gregorian }

func (gregorianConverter) DefaultLocale() Locale { return Invariant() }

func (gregorianConverter) ToInstant(d CivilDate) (time.Time, error) {
	if d.Year < minInterchangeYear || d.Year > maxInterchangeYear {
		return time.Time{}, outOfRange(Gregorian, d.String(),
			"year %d not in %d..%d", d.Year, minInterchangeYear, maxInterchangeYear)
	}
	if err := validateCivil(Gregorian, d, gregorianDaysIn); err != nil {
		return time.Time{}, err
	}
	return midnight(d.Year, d.Month, d.Day), nil
}

func (gregorianConverter) FromInstant(t time.Time) (CivilDate, error) {
	if err := checkInterchange(Gregorian, isoDate(t), t); err != nil {
		return CivilDate{}, err
	}
	y, m, d := instantDate(t)
	return CivilDate{Year: y, Month: m, Day: d}, nil
}

func (c gregorianConverter) FormatInstant(t time.Time, pattern string, loc Locale) (string, error) {
	return formatInstant(c, t, pattern, loc)
}

func gregorianDaysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
