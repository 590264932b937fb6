// Package dateutil parses civil dates typed by users. Input may use ASCII,
// Persian or Arabic digits, full-width forms and the usual separators, so
// "۱۴۰۲/۰۱/۰۱", "1402-1-1" and "14020101" all read as the same triple.
package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nowwaveradio/calendar-engine/calendar"
)

// ErrInvalidDate is returned for input that is not a recognizable date
var ErrInvalidDate = errors.New("invalid date")

// AIDEV-NOTE: Compile patterns and transformers once at package level
var (
	// separatedDateRegex matches Y/M/D with '/', '-' or '.' separators
	separatedDateRegex = regexp.MustCompile(`^(\d{1,4})[/.\-](\d{1,2})[/.\-](\d{1,2})$`)

	// compactDateRegex matches YYYYMMDD
	compactDateRegex = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)

	// digitNormalizer folds compatibility forms (full-width digits), strips
	// bidi and joiner marks, and maps Arabic-Indic digits to ASCII
	digitNormalizer = transform.Chain(
		norm.NFKC,
		runes.Remove(runes.In(unicode.Cf)),
		runes.Map(asciiDigit),
	)
)

// asciiDigit maps Arabic-Indic (U+0660..) and Extended Arabic-Indic
// (U+06F0..) digits to their ASCII equivalents
func asciiDigit(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r == '٫' || r == '؍':
		// Arabic decimal and date separators
		return '/'
	}
	return r
}

// NormalizeDigits rewrites every digit in s as ASCII and removes invisible
// formatting marks. Other text is kept.
func NormalizeDigits(s string) string {
	out, _, err := transform.String(digitNormalizer, s)
	if err != nil {
		// AIDEV-NOTE: Malformed input falls back to the original string
		return s
	}
	return out
}

// ParseCivilDate reads a year/month/day triple. The date is not validated
// against any calendar; that is the converter's job.
func ParseCivilDate(input string) (calendar.CivilDate, error) {
	s := strings.TrimSpace(NormalizeDigits(input))

	m := separatedDateRegex.FindStringSubmatch(s)
	if m == nil {
		m = compactDateRegex.FindStringSubmatch(s)
	}
	if m == nil {
		return calendar.CivilDate{}, fmt.Errorf("%w: %q (want yyyy/MM/dd, yyyy-MM-dd or yyyyMMdd)", ErrInvalidDate, input)
	}

	// The regexes guarantee short digit runs, Atoi cannot fail
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return calendar.CivilDate{Year: y, Month: mo, Day: d}, nil
}
