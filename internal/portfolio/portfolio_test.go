package portfolio

import (
	"testing"

	"quantbt/internal/domain"
)

func mustTrade(t *testing.T, ins domain.Instrument, side domain.Side, price, qty float64) domain.Trade {
	t.Helper()
	o, err := domain.NewOrder(ins, side, qty, 0)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	tr, err := domain.NewTrade(o, price, qty, 0)
	if err != nil {
		t.Fatalf("NewTrade: %v", err)
	}
	return tr
}

func TestPortfolioNAV(t *testing.T) {
	ins := testInstrument(t)
	pf := NewPortfolio(1000)

	// Buy 1@100 with no fees: cash drops to 900.
	if err := pf.ApplyTrade(mustTrade(t, ins, domain.SideBuy, 100, 1)); err != nil {
		t.Fatalf("ApplyTrade: %v", err)
	}
	if pf.Cash() != 900 {
		t.Errorf("Cash() = %v, want 900", pf.Cash())
	}

	// NAV at mark 105 = 900 + 1*100 + (105-100)*1 = 1005.
	if got := pf.NAVFor(ins, 105); got != 1005 {
		t.Errorf("NAVFor(mark=105) = %v, want 1005", got)
	}
}

func TestPortfolioNAVNoPosition(t *testing.T) {
	ins := testInstrument(t)
	pf := NewPortfolio(500)

	if got := pf.NAVFor(ins, 123.45); got != 500 {
		t.Errorf("NAVFor with no position = %v, want cash 500", got)
	}
}

func TestPortfolioAggregateRealized(t *testing.T) {
	aapl := testInstrument(t)
	msft, err := domain.NewEquity("MSFT", "XNAS")
	if err != nil {
		t.Fatalf("NewEquity: %v", err)
	}

	pf := NewPortfolio(10000)

	// Round trip AAPL for +10 and MSFT for -5.
	trades := []domain.Trade{
		mustTrade(t, aapl, domain.SideBuy, 100, 1),
		mustTrade(t, aapl, domain.SideSell, 110, 1),
		mustTrade(t, msft, domain.SideBuy, 200, 1),
		mustTrade(t, msft, domain.SideSell, 195, 1),
	}
	for _, tr := range trades {
		if err := pf.ApplyTrade(tr); err != nil {
			t.Fatalf("ApplyTrade: %v", err)
		}
	}

	if pf.RealizedPnL() != 5 {
		t.Errorf("RealizedPnL() = %v, want 5", pf.RealizedPnL())
	}
	// All positions are flat, so cash carries the whole PnL.
	if pf.Cash() != 10005 {
		t.Errorf("Cash() = %v, want 10005", pf.Cash())
	}
}

func TestPortfolioCashConservation(t *testing.T) {
	ins := testInstrument(t)
	pf := NewPortfolio(1000)

	if err := pf.ApplyTrade(mustTrade(t, ins, domain.SideBuy, 100, 2)); err != nil {
		t.Fatalf("ApplyTrade: %v", err)
	}
	if err := pf.ApplyTrade(mustTrade(t, ins, domain.SideSell, 120, 1)); err != nil {
		t.Fatalf("ApplyTrade: %v", err)
	}

	// 1000 - 200 + 120 = 920; NAV at the sell price carries the open unit.
	if pf.Cash() != 920 {
		t.Errorf("Cash() = %v, want 920", pf.Cash())
	}
	if got := pf.NAVFor(ins, 120); got != 1040 {
		t.Errorf("NAVFor(mark=120) = %v, want 1040", got)
	}
}
