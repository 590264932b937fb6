package calendar

import (
	"fmt"
	"time"
)

// CivilDate is a (year, month, day) triple in one specific calendar. The same
// triple names different days in different calendars.
type CivilDate struct {
	Year  int
	Month int
	Day   int
}

// String renders the date as yyyy/MM/dd with ASCII digits
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero CivilDate
func (d CivilDate) IsZero() bool {
	return d == CivilDate{}
}

// julianDay returns the Julian Day Number of a proleptic Gregorian date
// (Fliegel & Van Flandern). Integer division truncates toward zero, which the
// formula relies on.
func julianDay(y, m, d int) int {
	return d - 32075 +
		1461*(y+4800+(m-14)/12)/4 +
		367*(m-2-(m-14)/12*12)/12 -
		3*((y+4900+(m-14)/12)/100)/4
}

// fromJulianDay is the inverse of julianDay
func fromJulianDay(jd int) (y, m, d int) {
	l := jd + 68569
	n := 4 * l / 146097
	l = l - (146097*n+3)/4
	i := 4000 * (l + 1) / 1461001
	l = l - 1461*i/4 + 31
	j := 80 * l / 2447
	d = l - 2447*j/80
	l = j / 11
	m = j + 2 - 12*l
	y = 100*(n-49) + i + l
	return y, m, d
}

// midnight returns the instant at 00:00 UTC of a Gregorian date
func midnight(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// instantDate reads the Gregorian date of t in t's own location
func instantDate(t time.Time) (y, m, d int) {
	yy, mm, dd := t.Date()
	return yy, int(mm), dd
}

func isoDate(t time.Time) string {
	y, m, d := instantDate(t)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
