package builtins

import (
	"quantbt/internal/domain"
	"quantbt/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*SMACross)(nil)

// SMACross implements a simple moving average crossover strategy. It emits a
// buy signal when the fast-period SMA crosses strictly above the slow-period
// SMA, and a sell signal when it crosses strictly below. Ties do not count
// as crossings: a signal requires the strict inequality to flip from the
// previous bar.
type SMACross struct {
	fastPeriod int
	slowPeriod int

	fast window
	slow window

	prevFast float64
	prevSlow float64
	ready    bool
}

// window is a fixed-size rolling window of closing prices with a running
// sum. The average is defined only once the window is exactly full.
type window struct {
	size   int
	prices []float64
	sum    float64
}

func (w *window) reset() {
	w.prices = w.prices[:0]
	w.sum = 0
}

// push adds a price, evicting the oldest once the window exceeds its size.
// It returns the SMA and whether the window is full.
func (w *window) push(px float64) (float64, bool) {
	w.prices = append(w.prices, px)
	w.sum += px
	if len(w.prices) > w.size {
		w.sum -= w.prices[0]
		w.prices = w.prices[1:]
	}
	if len(w.prices) == w.size {
		return w.sum / float64(w.size), true
	}
	return 0, false
}

// NewSMACross creates an SMACross strategy with the given fast and slow
// moving average periods. Fast should be smaller than slow for meaningful
// signals.
func NewSMACross(fast, slow int) *SMACross {
	return &SMACross{
		fastPeriod: fast,
		slowPeriod: slow,
		fast:       window{size: fast},
		slow:       window{size: slow},
	}
}

// Name returns "sma-cross".
func (s *SMACross) Name() string { return "sma-cross" }

// OnStart clears both rolling windows and the crossover state.
func (s *SMACross) OnStart() {
	s.fast.reset()
	s.slow.reset()
	s.prevFast, s.prevSlow = 0, 0
	s.ready = false
}

// OnBar pushes the closing price into both windows and checks for a
// crossover. Until both windows are full the bar yields SignalNone. The
// first bar where both averages become available only primes the previous
// values; crossovers are detected from the next bar on. Previous values are
// updated on every ready bar, whether or not a signal fires.
func (s *SMACross) OnBar(bar domain.Bar) strategy.Signal {
	smaFast, okFast := s.fast.push(bar.Close)
	smaSlow, okSlow := s.slow.push(bar.Close)

	if !okFast || !okSlow {
		return strategy.SignalNone
	}

	if !s.ready {
		s.ready = true
		s.prevFast = smaFast
		s.prevSlow = smaSlow
		return strategy.SignalNone
	}

	crossUp := s.prevFast <= s.prevSlow && smaFast > smaSlow
	crossDown := s.prevFast >= s.prevSlow && smaFast < smaSlow

	s.prevFast = smaFast
	s.prevSlow = smaSlow

	switch {
	case crossUp:
		return strategy.SignalBuy
	case crossDown:
		return strategy.SignalSell
	default:
		return strategy.SignalNone
	}
}

// OnFinish is a no-op.
func (s *SMACross) OnFinish() {}
