package calendar

import (
	"sync"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"

	"github.com/nowwaveradio/calendar-engine/internal/constants"
)

// persianConverter takes Nowruz of every year from go-persian-calendar
// (2820-year cycle) and counts days from there in both directions. Dates
// before 962 AP are refused because the library switches to the Julian
// calendar before the 1582 Gregorian reform.
type persianConverter struct{}

// NewPersian returns the Persian (Jalali / Solar Hijri) converter
func NewPersian() Converter {
	return persianConverter{}
}

// persianFloor is Nowruz of the first supported year
var persianFloor = sync.OnceValue(func() time.Time {
	return nowruz(constants.MinPersianYear)
})

func nowruz(year int) time.Time {
	return ptime.Date(year, ptime.Farvardin, 1, 0, 0, 0, 0, time.UTC).Time()
}

// nowruzDay is the Julian Day Number of 1 Farvardin of year
func nowruzDay(year int) int {
	return julianDay(instantDate(nowruz(year)))
}

func (persianConverter) Kind() Kind { return Persian }

func (persianConverter) DefaultLocale() Locale { return PersianIran() }

func (persianConverter) ToInstant(d CivilDate) (time.Time, error) {
	if d.Year < constants.MinPersianYear || d.Year > constants.MaxPersianYear {
		return time.Time{}, outOfRange(Persian, d.String(),
			"year %d not in %d..%d", d.Year, constants.MinPersianYear, constants.MaxPersianYear)
	}
	if err := validateCivil(Persian, d, persianDaysIn); err != nil {
		return time.Time{}, err
	}

	// AIDEV-NOTE: ptime.Date normalises Esfand 30 differently from ptime.New
	// in some leap years, so only its Nowruz is trusted.
	t := midnight(fromJulianDay(nowruzDay(d.Year) + persianDayOfYear(d.Month, d.Day)))
	if err := checkInterchange(Persian, d.String(), t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (persianConverter) FromInstant(t time.Time) (CivilDate, error) {
	if err := checkInterchange(Persian, isoDate(t), t); err != nil {
		return CivilDate{}, err
	}
	gy, gm, gd := instantDate(t)
	if midnight(gy, gm, gd).Before(persianFloor()) {
		return CivilDate{}, outOfRange(Persian, isoDate(t),
			"instant before %s (%d/01/01)", isoDate(persianFloor()), constants.MinPersianYear)
	}

	jd := julianDay(gy, gm, gd)
	year := gy - 621
	start := nowruzDay(year)
	if jd < start {
		year--
		start = nowruzDay(year)
	}

	m, d := persianMonthDay(jd - start)
	return CivilDate{Year: year, Month: m, Day: d}, nil
}

func (c persianConverter) FormatInstant(t time.Time, pattern string, loc Locale) (string, error) {
	return formatInstant(c, t, pattern, loc)
}

// persianDayOfYear is the 0-based day of the year of month/day
func persianDayOfYear(month, day int) int {
	if month <= 7 {
		return 31*(month-1) + day - 1
	}
	return 186 + 30*(month-7) + day - 1
}

// persianMonthDay is the inverse of persianDayOfYear
func persianMonthDay(doy int) (month, day int) {
	if doy < 186 {
		return doy/31 + 1, doy%31 + 1
	}
	doy -= 186
	return doy/30 + 7, doy%30 + 1
}

// persianDaysIn returns the length of a Jalali month. The first six months
// have 31 days, the next five 30, and Esfand 29 or 30 in a leap year.
func persianDaysIn(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	case persianIsLeap(year):
		return 30
	default:
		return 29
	}
}

// persianIsLeap measures the year between two consecutive Nowruz days, so
// leap years agree with the day arithmetic above.
func persianIsLeap(year int) bool {
	return nowruzDay(year+1)-nowruzDay(year) == 366
}
