package calendar

import (
	"log/slog"
	"time"
)

// Selector holds the source calendar of a conversion chain
type Selector struct {
	source Kind
	reg    *Registry
	log    *slog.Logger
}

// Source returns the calendar the chain starts from
func (s Selector) Source() Kind { return s.source }

// To picks the target calendar. It does not touch the registry; unknown
// kinds are reported by the Formatter's operations.
func (s Selector) To(target Kind) Formatter {
	return Formatter{
		source: s.source,
		target: target,
		reg:    s.reg,
		log:    s.log,
	}
}

// Formatter converts and formats instants from a source to a target
// calendar. It is a small value type and safe to copy and share.
type Formatter struct {
	source Kind
	target Kind
	reg    *Registry
	locale Locale
	log    *slog.Logger
}

// Source returns the calendar the instant is read in
func (f Formatter) Source() Kind { return f.source }

// Target returns the calendar results are expressed in
func (f Formatter) Target() Kind { return f.target }

// Locale returns the culture override, or the zero Locale when the target's
// default applies.
func (f Formatter) Locale() Locale { return f.locale }

// WithLocale returns a copy of f that renders with loc instead of the target
// calendar's default culture.
func (f Formatter) WithLocale(loc Locale) Formatter {
	f.locale = loc
	return f
}

// Convert reinterprets t across calendars: the source calendar's
// (year, month, day) for t is read and the same numbers are taken as a date
// of the target calendar. It does NOT return the same day expressed in
// another calendar. Persian→Gregorian of Nowruz 1402 (2023-03-21) yields
// 1402-01-01 Gregorian.
//
// When source and target are the same, t is returned unchanged.
func (f Formatter) Convert(t time.Time) (time.Time, error) {
	src, dst, err := f.reg.resolvePair(f.source, f.target)
	if err != nil {
		return time.Time{}, err
	}
	if f.source == f.target {
		return t, nil
	}

	d, err := src.FromInstant(t)
	if err != nil {
		return time.Time{}, err
	}
	out, err := dst.ToInstant(d)
	if err != nil {
		return time.Time{}, err
	}

	f.logger().Debug("reinterpreted date",
		"source", f.source.String(),
		"target", f.target.String(),
		"civil_date", d.String(),
		"instant", isoDate(out))
	return out, nil
}

// Format renders the day of t in the target calendar's notation, so
// Gregorian→Persian of 2023-03-21 with "yyyy/MM/dd" gives "1402/01/01". The
// instant must be representable in the source calendar.
func (f Formatter) Format(t time.Time, pattern string) (string, error) {
	src, dst, err := f.reg.resolvePair(f.source, f.target)
	if err != nil {
		return "", err
	}
	if f.source != f.target {
		if _, err := src.FromInstant(t); err != nil {
			return "", err
		}
	}

	s, err := dst.FormatInstant(t, pattern, f.locale)
	if err != nil {
		return "", err
	}

	f.logger().Debug("formatted date",
		"source", f.source.String(),
		"target", f.target.String(),
		"pattern", pattern,
		"result", s)
	return s, nil
}

// FormatConverted applies Convert and formats the reinterpreted instant in
// the target calendar's notation.
func (f Formatter) FormatConverted(t time.Time, pattern string) (string, error) {
	converted, err := f.Convert(t)
	if err != nil {
		return "", err
	}
	dst, err := f.reg.Resolve(f.target)
	if err != nil {
		return "", err
	}
	return dst.FormatInstant(converted, pattern, f.locale)
}

func (f Formatter) logger() *slog.Logger {
	if f.log == nil {
		return discardLogger
	}
	return f.log
}
