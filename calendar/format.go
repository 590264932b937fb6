package calendar

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/nowwaveradio/calendar-engine/internal/pattern"
)

// formatInstant is the shared pattern renderer behind every built-in
// converter's FormatInstant.
func formatInstant(c Converter, t time.Time, p string, loc Locale) (string, error) {
	if loc.IsZero() {
		digits := loc.digits
		loc = c.DefaultLocale()
		if digits != LatinDigits {
			loc = loc.WithDigits(digits)
		}
	}

	tokens, err := pattern.Lex(p)
	if err != nil {
		return "", &FormatError{Pattern: p, Err: err}
	}

	date, err := c.FromInstant(t)
	if err != nil {
		return "", err
	}

	r := renderer{conv: c, t: t, date: date, loc: loc}
	var b strings.Builder
	for _, tok := range tokens {
		s, err := r.field(tok)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

type renderer struct {
	conv Converter
	t    time.Time
	date CivilDate
	loc  Locale
}

func (r renderer) field(tok pattern.Token) (string, error) {
	if tok.Field.IsCalendarField() {
		return r.calendarField(tok.Field), nil
	}

	names := r.loc.table()

	switch tok.Field {
	case pattern.Literal:
		return tok.Text, nil

	case pattern.MonthName, pattern.MonthAbbr:
		table, month, err := r.nameMonth()
		if err != nil {
			return "", err
		}
		if tok.Field == pattern.MonthAbbr {
			return table.monthsAbbr[month-1], nil
		}
		return table.months[month-1], nil

	case pattern.Weekday:
		return names.weekdays[r.t.Weekday()], nil
	case pattern.WeekdayAbbr:
		return names.weekdaysAbbr[r.t.Weekday()], nil

	case pattern.Hour24Padded:
		return r.number(r.t.Hour(), 2), nil
	case pattern.Hour24:
		return r.number(r.t.Hour(), 1), nil
	case pattern.Hour12Padded:
		return r.number(hour12(r.t.Hour()), 2), nil
	case pattern.Hour12:
		return r.number(hour12(r.t.Hour()), 1), nil
	case pattern.MinutePadded:
		return r.number(r.t.Minute(), 2), nil
	case pattern.Minute:
		return r.number(r.t.Minute(), 1), nil
	case pattern.SecondPadded:
		return r.number(r.t.Second(), 2), nil
	case pattern.Second:
		return r.number(r.t.Second(), 1), nil
	case pattern.Designator:
		if r.t.Hour() < 12 {
			return names.am, nil
		}
		return names.pm, nil
	}

	return "", &FormatError{Pattern: tok.Text}
}

// calendarField renders the year, month and day numbers of the converter's date
func (r renderer) calendarField(f pattern.Field) string {
	switch f {
	case pattern.Year:
		return r.number(r.date.Year, 4)
	case pattern.YearShort:
		return r.number(r.date.Year%100, 2)
	case pattern.MonthPadded:
		return r.number(r.date.Month, 2)
	case pattern.Month:
		return r.number(r.date.Month, 1)
	case pattern.DayPadded:
		return r.number(r.date.Day, 2)
	default:
		return r.number(r.date.Day, 1)
	}
}

// nameTables maps each built-in calendar to the names of its months
var nameTables = map[Kind]*nameTable{
	Gregorian: englishNames,
	Persian:   persianNames,
	Hijri:     arabicNames,
}

// nameMonth returns the month of the instant in the locale's name calendar.
// The converter's own date is reused when the calendars coincide, so an
// adjusted Hijri converter names the months it numbers. Instants the name
// calendar cannot read fall back to the converter's month names.
func (r renderer) nameMonth() (*nameTable, int, error) {
	names := r.loc.table()
	k := names.nameCalendar
	if k == r.conv.Kind() {
		return names, r.date.Month, nil
	}

	d, err := builtin(k).FromInstant(r.t)
	if err == nil {
		return names, d.Month, nil
	}
	if own, ok := nameTables[r.conv.Kind()]; ok && errors.Is(err, ErrOutOfRange) {
		return own, r.date.Month, nil
	}
	return nil, 0, err
}

func (r renderer) number(n, width int) string {
	s := strconv.Itoa(n)
	if pad := width - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return r.loc.digits.Shape(s)
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}
