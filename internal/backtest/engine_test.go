package backtest

import (
	"math"
	"testing"

	"quantbt/internal/domain"
	"quantbt/internal/strategy"
	"quantbt/internal/strategy/builtins"
)

func seriesOf(closes ...float64) *domain.BarSeries {
	var s domain.BarSeries
	for i, c := range closes {
		s.Add(domain.Bar{Ts: int64(i) * 60_000, Open: c, High: c, Low: c, Close: c, Volume: 1000})
	}
	return &s
}

// scriptedStrategy replays a fixed signal sequence, one per bar.
type scriptedStrategy struct {
	signals []strategy.Signal
	i       int
}

func (s *scriptedStrategy) Name() string { return "scripted" }
func (s *scriptedStrategy) OnStart()     { s.i = 0 }
func (s *scriptedStrategy) OnFinish()    {}

func (s *scriptedStrategy) OnBar(_ domain.Bar) strategy.Signal {
	if s.i >= len(s.signals) {
		return strategy.SignalNone
	}
	sig := s.signals[s.i]
	s.i++
	return sig
}

func TestEngineEmptySeries(t *testing.T) {
	e := NewEngine(1000, ExecParams{})
	r := e.Run(&domain.BarSeries{}, builtins.NewBuyHold())

	if r.FinalEquity != r.InitialEquity {
		t.Errorf("FinalEquity = %v, want initial %v", r.FinalEquity, r.InitialEquity)
	}
	if r.TradesExecuted != 0 {
		t.Errorf("TradesExecuted = %d, want 0", r.TradesExecuted)
	}
}

func TestEngineBuyHoldCountsOneTrade(t *testing.T) {
	// Zero execution costs: BuyHold over any series is one opening trade at
	// the first close and a forced liquidation at the last close.
	for _, closes := range [][]float64{
		{100},
		{100, 101},
		{100, 90, 95, 120, 80},
	} {
		e := NewEngine(1000, ExecParams{})
		r := e.Run(seriesOf(closes...), builtins.NewBuyHold())

		if r.TradesExecuted != 1 {
			t.Errorf("series %v: TradesExecuted = %d, want 1", closes, r.TradesExecuted)
		}
		want := 1000 - closes[0] + closes[len(closes)-1]
		if math.Abs(r.FinalEquity-want) > 1e-9 {
			t.Errorf("series %v: FinalEquity = %v, want %v", closes, r.FinalEquity, want)
		}
	}
}

func TestEngineBuyHoldWithFixedCommission(t *testing.T) {
	// [100,101,102,103] with fixed=1: open at 100 leaves cash 899, forced
	// close at 103 yields 899 + 103 - 1 = 1001.
	e := NewEngine(1000, ExecParams{CommissionFixed: 1.0})
	r := e.Run(seriesOf(100, 101, 102, 103), builtins.NewBuyHold())

	if r.TradesExecuted != 1 {
		t.Errorf("TradesExecuted = %d, want 1", r.TradesExecuted)
	}
	if r.FinalEquity != 1001 {
		t.Errorf("FinalEquity = %v, want 1001", r.FinalEquity)
	}
}

func TestEngineInsufficientCashIgnoresBuy(t *testing.T) {
	e := NewEngine(50, ExecParams{})
	r := e.Run(seriesOf(100, 101, 102), builtins.NewBuyHold())

	if r.TradesExecuted != 0 {
		t.Errorf("TradesExecuted = %d, want 0 when cash cannot cover the fill", r.TradesExecuted)
	}
	if r.FinalEquity != 50 {
		t.Errorf("FinalEquity = %v, want untouched 50", r.FinalEquity)
	}
}

func TestEngineIgnoresMismatchedSignals(t *testing.T) {
	// Sell while flat and buy while long are defined no-ops.
	strat := &scriptedStrategy{signals: []strategy.Signal{
		strategy.SignalSell, // flat: ignored
		strategy.SignalBuy,  // opens at 101
		strategy.SignalBuy,  // long: ignored, no pyramiding
		strategy.SignalSell, // closes at 103
	}}

	e := NewEngine(1000, ExecParams{})
	r := e.Run(seriesOf(100, 101, 102, 103), strat)

	if r.TradesExecuted != 1 {
		t.Errorf("TradesExecuted = %d, want 1 (opens only)", r.TradesExecuted)
	}
	if r.FinalEquity != 1002 {
		t.Errorf("FinalEquity = %v, want 1000 - 101 + 103 = 1002", r.FinalEquity)
	}
}

func TestEngineRoundTripWithSlippageAndCommission(t *testing.T) {
	// 100 bps slippage: buy fills at 101, sell at 102.96 (104 * 0.99).
	// Commission: 1 fixed + 50 bps of notional.
	strat := &scriptedStrategy{signals: []strategy.Signal{
		strategy.SignalBuy,
		strategy.SignalNone,
		strategy.SignalSell,
	}}

	e := NewEngine(1000, ExecParams{CommissionFixed: 1.0, CommissionBps: 50, SlippageBps: 100})
	r := e.Run(seriesOf(100, 102, 104), strat)

	buyPx := 100 * 1.01
	buyFee := 1.0 + 0.005*buyPx
	sellPx := 104 * 0.99
	sellFee := 1.0 + 0.005*sellPx
	want := 1000 - buyPx - buyFee + sellPx - sellFee

	if math.Abs(r.FinalEquity-want) > 1e-9 {
		t.Errorf("FinalEquity = %v, want %v", r.FinalEquity, want)
	}
	if r.TradesExecuted != 1 {
		t.Errorf("TradesExecuted = %d, want 1", r.TradesExecuted)
	}
}

func TestEngineForcedLiquidationUsesExecutionModel(t *testing.T) {
	// A position still open at end of series closes at the last bar's close
	// through the same slippage/commission path as an ordinary sell.
	e := NewEngine(1000, ExecParams{CommissionFixed: 2.0, SlippageBps: 100})
	r := e.Run(seriesOf(100, 110), builtins.NewBuyHold())

	buyPx := 100 * 1.01
	sellPx := 110 * 0.99
	want := 1000 - buyPx - 2.0 + sellPx - 2.0

	if math.Abs(r.FinalEquity-want) > 1e-9 {
		t.Errorf("FinalEquity = %v, want %v", r.FinalEquity, want)
	}
}

func TestEngineSMACrossEndToEnd(t *testing.T) {
	// A dip followed by a rally drives the fast SMA below and then above the
	// slow SMA, producing one entry; the run ends long and liquidates at the
	// final close.
	closes := []float64{10, 9, 8, 7, 6, 5, 6, 8, 10, 12, 14}
	e := NewEngine(100, ExecParams{})
	r := e.Run(seriesOf(closes...), builtins.NewSMACross(2, 4))

	if r.TradesExecuted != 1 {
		t.Errorf("TradesExecuted = %d, want 1", r.TradesExecuted)
	}
	if r.FinalEquity <= r.InitialEquity {
		t.Errorf("FinalEquity = %v, want a profit riding the rally from %v", r.FinalEquity, r.InitialEquity)
	}
}
