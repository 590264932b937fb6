package calendar

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is
var (
	ErrUnsupportedCalendar = errors.New("unsupported calendar")
	ErrOutOfRange          = errors.New("date out of range")
	ErrInvalidFormat       = errors.New("invalid format pattern")
	ErrUnsupportedLocale   = errors.New("unsupported locale")
	ErrDuplicateCalendar   = errors.New("duplicate calendar converter")
	ErrInvalidAdjustment   = errors.New("invalid hijri adjustment")
)

// UnsupportedCalendarError reports a calendar kind (or name) that has no
// converter in the registry. It is raised before any conversion is attempted.
type UnsupportedCalendarError struct {
	Kind Kind
	Name string // set when the calendar was requested by name
}

func (e *UnsupportedCalendarError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unsupported calendar %q", e.Name)
	}
	return "unsupported calendar: " + e.Kind.String()
}

func (e *UnsupportedCalendarError) Unwrap() error {
	return ErrUnsupportedCalendar
}

// OutOfRangeError reports a civil date or instant outside a calendar's
// representable range, or a month/day that does not exist in that calendar.
type OutOfRangeError struct {
	Calendar Kind
	Value    string
	Reason   string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s date %s out of range: %s", e.Calendar, e.Value, e.Reason)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// FormatError reports a pattern that cannot be rendered. Err carries the
// lexer's *pattern.SyntaxError.
type FormatError struct {
	Pattern string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid format pattern %q", e.Pattern)
	}
	return fmt.Sprintf("invalid format pattern %q: %v", e.Pattern, e.Err)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidFormat}
	}
	return []error{ErrInvalidFormat, e.Err}
}

func outOfRange(k Kind, value, format string, args ...any) error {
	return &OutOfRangeError{
		Calendar: k,
		Value:    value,
		Reason:   fmt.Sprintf(format, args...),
	}
}
