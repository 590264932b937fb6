package calendar

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var errNilConverter = errors.New("nil converter")

// Registry maps calendar kinds to converters. It is immutable once built and
// shared, never copied, by every Selector and Formatter derived from it.
type Registry struct {
	converters map[Kind]Converter
}

// NewRegistry builds a registry from converters. Nil converters and two
// converters for the same kind are rejected.
func NewRegistry(converters ...Converter) (*Registry, error) {
	r := &Registry{converters: make(map[Kind]Converter, len(converters))}
	for i, c := range converters {
		if c == nil {
			return nil, fmt.Errorf("%w at position %d", errNilConverter, i)
		}
		k := c.Kind()
		if _, exists := r.converters[k]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCalendar, k)
		}
		r.converters[k] = c
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := &Registry{converters: make(map[Kind]Converter, len(builtins))}
	for k, build := range builtins {
		r.converters[Kind(k)] = build()
	}
	return r
})

// DefaultRegistry returns the registry holding exactly the Gregorian,
// Persian and Hijri converters.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Resolve returns the converter registered for k
func (r *Registry) Resolve(k Kind) (Converter, error) {
	if r != nil {
		if c, ok := r.converters[k]; ok {
			return c, nil
		}
	}
	return nil, &UnsupportedCalendarError{Kind: k}
}

// Kinds returns the registered kinds in ascending order
func (r *Registry) Kinds() []Kind {
	if r == nil {
		return nil
	}
	kinds := make([]Kind, 0, len(r.converters))
	for k := range r.converters {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// With returns a new registry in which converters replace the entries of
// their kinds. The receiver is left untouched.
func (r *Registry) With(converters ...Converter) (*Registry, error) {
	replacement, err := NewRegistry(converters...)
	if err != nil {
		return nil, err
	}

	if r == nil {
		return replacement, nil
	}
	for k, c := range r.converters {
		if _, replaced := replacement.converters[k]; !replaced {
			replacement.converters[k] = c
		}
	}
	return replacement, nil
}

// resolvePair looks up both ends of a conversion, source first
func (r *Registry) resolvePair(source, target Kind) (Converter, Converter, error) {
	src, err := r.Resolve(source)
	if err != nil {
		return nil, nil, err
	}
	dst, err := r.Resolve(target)
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}
