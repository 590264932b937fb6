// Package calendar converts dates between the Gregorian, Persian (Jalali) and
// Hijri (Islamic) calendars and formats them using each calendar's notation.
//
// The entry point is a fluent chain:
//
//	s, err := calendar.From(calendar.Gregorian).To(calendar.Persian).Format(t, "yyyy/MM/dd")
//
// Instants are plain time.Time values; a CivilDate is a (year, month, day)
// triple that only has meaning inside one calendar.
package calendar

import (
	"strconv"
	"strings"
)

// Kind identifies a calendar system. It is only ever used as a lookup key.
type Kind int

const (
	Gregorian Kind = iota
	Persian
	Hijri
)

var kindNames = [...]string{
	Gregorian: "Gregorian",
	Persian:   "Persian",
	Hijri:     "Hijri",
}

// kindAliases maps lower-case names accepted by ParseKind
var kindAliases = map[string]Kind{
	"gregorian": Gregorian,
	"western":   Gregorian,
	"persian":   Persian,
	"jalali":    Persian,
	"shamsi":    Persian,
	"hijri":     Hijri,
	"islamic":   Hijri,
	"lunar":     Hijri,
	"qamari":    Hijri,
}

func (k Kind) String() string {
	if k.isBuiltin() {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) isBuiltin() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// Kinds returns the built-in calendar kinds in declaration order
func Kinds() []Kind {
	return []Kind{Gregorian, Persian, Hijri}
}

// ParseKind resolves a calendar name such as "gregorian", "jalali" or
// "islamic" (case-insensitive) to its Kind.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return 0, &UnsupportedCalendarError{Kind: -1, Name: name}
}
