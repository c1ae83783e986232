// Package strategy defines the Strategy contract consumed by the backtest
// engine and provides a Registry for selecting strategies by name.
package strategy

import (
	"sort"

	"quantbt/internal/domain"
)

// Signal is the trading decision a strategy emits at a bar.
type Signal int

// Possible signals.
const (
	SignalNone Signal = iota
	SignalBuy
	SignalSell
)

// String returns the lower-case signal name.
func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	default:
		return "none"
	}
}

// Strategy is the contract the engine drives. The engine calls OnStart once
// before the first bar, OnBar exactly once per bar in chronological order,
// and OnFinish once after the last bar.
//
// Strategy implementations carry mutable per-run state and must not be
// shared across concurrent runs.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// OnStart resets internal state before any bars are processed.
	OnStart()

	// OnBar consumes the next bar and returns a trading decision.
	OnBar(bar domain.Bar) Signal

	// OnFinish finalizes internal state after the last bar.
	OnFinish()
}

// Factory constructs a fresh Strategy instance. Registered strategies are
// stateful per run, so the registry hands out factories rather than shared
// instances.
type Factory func() Strategy

// Registry holds a named collection of strategy factories for lookup and
// enumeration.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a strategy factory to the registry under the given name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New constructs a fresh instance of the named strategy. The second return
// value indicates whether the strategy was found.
func (r *Registry) New(name string) (Strategy, bool) {
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
