package builtins

import "quantbt/internal/strategy"

// DefaultRegistry returns a Registry populated with the built-in strategies.
// The SMA crossover factory is bound to the given fast/slow periods.
func DefaultRegistry(fast, slow int) *strategy.Registry {
	r := strategy.NewRegistry()
	r.Register("buy-hold", func() strategy.Strategy { return NewBuyHold() })
	r.Register("sma-cross", func() strategy.Strategy { return NewSMACross(fast, slow) })
	return r
}
