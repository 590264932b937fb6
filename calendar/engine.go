package calendar

import (
	"log/slog"
	"sync"
)

var discardLogger = slog.New(slog.DiscardHandler)

// Engine is the entry point of conversion chains. It captures a registry and
// a logger at construction and never changes afterwards.
type Engine struct {
	reg *Registry
	log *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger makes the engine log conversions at debug level
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns an engine over reg. A nil registry selects DefaultRegistry.
func New(reg *Registry, opts ...Option) *Engine {
	if reg == nil {
		reg = DefaultRegistry()
	}
	e := &Engine{reg: reg, log: discardLogger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine resolves calendars in
func (e *Engine) Registry() *Registry {
	return e.reg
}

// From starts a conversion chain reading dates in source
func (e *Engine) From(source Kind) Selector {
	return Selector{source: source, reg: e.reg, log: e.log}
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return New(nil)
})

// From starts a conversion chain on the default engine, which uses
// DefaultRegistry and does not log.
func From(source Kind) Selector {
	return defaultEngine().From(source)
}
