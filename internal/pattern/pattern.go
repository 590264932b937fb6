// Package pattern tokenizes the date-format mini-language shared by all
// calendar converters. Patterns follow the common custom date-format syntax:
// runs of a letter form a token ("yyyy", "MM", "dddd"), quoted text and
// backslash escapes are literal, and everything that is not an ASCII letter
// is copied through unchanged.
package pattern

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field identifies what a token renders
type Field int

const (
	Literal Field = iota

	// Calendar fields, substituted by the converter's own calendar
	Year        // yyyy
	YearShort   // yy
	MonthPadded // MM
	Month       // M
	DayPadded   // dd
	Day         // d

	// Name fields, resolved against the instant with the locale's rules
	MonthName   // MMMM
	MonthAbbr   // MMM
	Weekday     // dddd
	WeekdayAbbr // ddd

	// Time of day of the instant
	Hour24Padded // HH
	Hour24       // H
	Hour12Padded // hh
	Hour12       // h
	MinutePadded // mm
	Minute       // m
	SecondPadded // ss
	Second       // s
	Designator   // tt
)

var tokens = map[string]Field{
	"yyyy": Year,
	"yy":   YearShort,
	"MMMM": MonthName,
	"MMM":  MonthAbbr,
	"MM":   MonthPadded,
	"M":    Month,
	"dddd": Weekday,
	"ddd":  WeekdayAbbr,
	"dd":   DayPadded,
	"d":    Day,
	"HH":   Hour24Padded,
	"H":    Hour24,
	"hh":   Hour12Padded,
	"h":    Hour12,
	"mm":   MinutePadded,
	"m":    Minute,
	"ss":   SecondPadded,
	"s":    Second,
	"tt":   Designator,
}

// IsCalendarField reports whether f takes its value from the calendar's
// year/month/day numbering rather than from the instant.
func (f Field) IsCalendarField() bool {
	return f >= Year && f <= Day
}

// Token is one element of a lexed pattern. For Literal tokens Text holds the
// text to copy; for fields it holds the raw token ("yyyy").
type Token struct {
	Field Field
	Text  string
}

// ErrEmpty is returned for an empty pattern
var ErrEmpty = errors.New("empty pattern")

// SyntaxError describes where a pattern stopped making sense
type SyntaxError struct {
	Offset int    // byte offset into the pattern
	Token  string // offending text
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s %q at offset %d", e.Msg, e.Token, e.Offset)
}

// Lex splits a pattern into tokens. Adjacent literal text is merged into a
// single Literal token.
func Lex(p string) ([]Token, error) {
	if p == "" {
		return nil, ErrEmpty
	}

	var (
		out []Token
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, Token{Field: Literal, Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(p); {
		c := p[i]
		switch {
		case c == '\'' || c == '"':
			end := strings.IndexByte(p[i+1:], c)
			if end < 0 {
				return nil, &SyntaxError{Offset: i, Token: p[i:], Msg: "unterminated quoted literal"}
			}
			lit.WriteString(p[i+1 : i+1+end])
			i += end + 2

		case c == '\\':
			if i+1 >= len(p) {
				return nil, &SyntaxError{Offset: i, Token: `\`, Msg: "dangling escape"}
			}
			_, size := utf8.DecodeRuneInString(p[i+1:])
			lit.WriteString(p[i+1 : i+1+size])
			i += 1 + size

		case isASCIILetter(c):
			j := i + 1
			for j < len(p) && p[j] == c {
				j++
			}
			run := p[i:j]
			field, ok := tokens[run]
			if !ok {
				return nil, &SyntaxError{Offset: i, Token: run, Msg: "unrecognized token"}
			}
			flush()
			out = append(out, Token{Field: field, Text: run})
			i = j

		default:
			// Non-ASCII runes (Persian or Arabic text) are literal as well
			_, size := utf8.DecodeRuneInString(p[i:])
			lit.WriteString(p[i : i+size])
			i += size
		}
	}
	flush()

	return out, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
