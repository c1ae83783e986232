// Package builtins provides the strategy implementations that ship with
// quantbt.
package builtins

import (
	"quantbt/internal/domain"
	"quantbt/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*BuyHold)(nil)

// BuyHold is the baseline benchmark strategy: it buys on the first bar and
// holds for the rest of the series.
type BuyHold struct {
	hasBought bool
}

// NewBuyHold creates a BuyHold strategy.
func NewBuyHold() *BuyHold {
	return &BuyHold{}
}

// Name returns "buy-hold".
func (s *BuyHold) Name() string { return "buy-hold" }

// OnStart resets the strategy so the next run buys again on its first bar.
func (s *BuyHold) OnStart() {
	s.hasBought = false
}

// OnBar returns SignalBuy exactly once, on the first bar after OnStart, and
// SignalNone on every subsequent bar regardless of price.
func (s *BuyHold) OnBar(_ domain.Bar) strategy.Signal {
	if !s.hasBought {
		s.hasBought = true
		return strategy.SignalBuy
	}
	return strategy.SignalNone
}

// OnFinish is a no-op.
func (s *BuyHold) OnFinish() {}
