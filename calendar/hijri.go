package calendar

import (
	"fmt"
	"time"

	"github.com/nowwaveradio/calendar-engine/internal/constants"
)

// hijriConverter implements the tabular Islamic calendar: a 30-year cycle in
// which years 2, 5, 7, 10, 13, 16, 18, 21, 24, 26 and 29 are leap years,
// counted from the civil (Friday) epoch. Odd months have 30 days, even months
// 29, and Dhu al-Hijjah gains a day in leap years.
//
// adjustment shifts the whole calendar by a few days to follow local moon
// sighting: with adjustment +1 every Hijri date starts one day earlier.
type hijriConverter struct {
	adjustment int
}

// NewHijri returns a tabular Hijri converter shifted by adjustment days.
// The adjustment must lie within ±constants.MaxHijriAdjustment.
func NewHijri(adjustment int) (Converter, error) {
	if adjustment < -constants.MaxHijriAdjustment || adjustment > constants.MaxHijriAdjustment {
		return nil, fmt.Errorf("%w: %d not in %d..%d", ErrInvalidAdjustment,
			adjustment, -constants.MaxHijriAdjustment, constants.MaxHijriAdjustment)
	}
	return hijriConverter{adjustment: adjustment}, nil
}

func (hijriConverter) Kind() Kind { return Hijri }

func (hijriConverter) DefaultLocale() Locale { return ArabicSaudi() }

// Adjustment reports the day offset applied to the tabular calendar
func (c hijriConverter) Adjustment() int { return c.adjustment }

func (c hijriConverter) ToInstant(d CivilDate) (time.Time, error) {
	if d.Year < constants.MinHijriYear || d.Year > constants.MaxHijriYear {
		return time.Time{}, outOfRange(Hijri, d.String(),
			"year %d not in %d..%d", d.Year, constants.MinHijriYear, constants.MaxHijriYear)
	}
	if err := validateCivil(Hijri, d, hijriDaysIn); err != nil {
		return time.Time{}, err
	}

	jd := hijriToJulianDay(d.Year, d.Month, d.Day) - c.adjustment
	y, m, dd := fromJulianDay(jd)
	if y < minInterchangeYear || y > maxInterchangeYear {
		return time.Time{}, outOfRange(Hijri, d.String(),
			"instant year %d outside 0001-01-01..9999-12-31", y)
	}
	return midnight(y, m, dd), nil
}

func (c hijriConverter) FromInstant(t time.Time) (CivilDate, error) {
	if err := checkInterchange(Hijri, isoDate(t), t); err != nil {
		return CivilDate{}, err
	}

	jd := julianDay(instantDate(t)) + c.adjustment
	if jd < constants.HijriEpochJulianDay {
		return CivilDate{}, outOfRange(Hijri, isoDate(t), "instant before 1 Muharram 1 AH")
	}

	y := (30*(jd-constants.HijriEpochJulianDay) + 10646) / 10631
	if jd < hijriToJulianDay(y, 1, 1) {
		y--
	}
	if y > constants.MaxHijriYear {
		return CivilDate{}, outOfRange(Hijri, isoDate(t),
			"year %d beyond %d", y, constants.MaxHijriYear)
	}

	m := 1
	for m < 12 && jd >= hijriToJulianDay(y, m+1, 1) {
		m++
	}
	return CivilDate{Year: y, Month: m, Day: jd - hijriToJulianDay(y, m, 1) + 1}, nil
}

func (c hijriConverter) FormatInstant(t time.Time, pattern string, loc Locale) (string, error) {
	return formatInstant(c, t, pattern, loc)
}

// hijriToJulianDay returns the Julian Day Number of a tabular Hijri date
// before any adjustment.
func hijriToJulianDay(y, m, d int) int {
	return d +
		(59*(m-1)+1)/2 +
		(y-1)*354 +
		(3+11*y)/30 +
		constants.HijriEpochJulianDay - 1
}

func hijriIsLeap(year int) bool {
	return (14+11*year)%30 < 11
}

func hijriDaysIn(year, month int) int {
	if month == 12 && hijriIsLeap(year) {
		return 30
	}
	if month%2 == 1 {
		return 30
	}
	return 29
}
