package backtest

import "testing"

func TestApplySlippageDirection(t *testing.T) {
	const px, bps = 100.0, 25.0

	buy := ApplySlippage(px, bps, true)
	if buy <= px {
		t.Errorf("buy slippage: %v, want > %v", buy, px)
	}
	sell := ApplySlippage(px, bps, false)
	if sell >= px {
		t.Errorf("sell slippage: %v, want < %v", sell, px)
	}
}

func TestApplySlippageZeroIsNoOp(t *testing.T) {
	if got := ApplySlippage(123.45, 0, true); got != 123.45 {
		t.Errorf("buy with 0 bps = %v, want 123.45", got)
	}
	if got := ApplySlippage(123.45, 0, false); got != 123.45 {
		t.Errorf("sell with 0 bps = %v, want 123.45", got)
	}
}

func TestApplySlippageNegativeBpsReverses(t *testing.T) {
	// Negative bps is accepted and flips the adjustment direction.
	if got := ApplySlippage(100, -10, true); got >= 100 {
		t.Errorf("buy with -10 bps = %v, want < 100", got)
	}
	if got := ApplySlippage(100, -10, false); got <= 100 {
		t.Errorf("sell with -10 bps = %v, want > 100", got)
	}
}

func TestApplySlippageExactValues(t *testing.T) {
	// 50 bps = 0.5%.
	if got, want := ApplySlippage(200, 50, true), 201.0; got != want {
		t.Errorf("buy = %v, want %v", got, want)
	}
	if got, want := ApplySlippage(200, 50, false), 199.0; got != want {
		t.Errorf("sell = %v, want %v", got, want)
	}
}

func TestCommissionCost(t *testing.T) {
	// fixed + bps/10000 * px*qty.
	if got, want := CommissionCost(100, 2, 1.0, 10), 1.2; got != want {
		t.Errorf("CommissionCost = %v, want %v", got, want)
	}
	if got, want := CommissionCost(100, 1, 0, 0), 0.0; got != want {
		t.Errorf("CommissionCost with zero params = %v, want %v", got, want)
	}
}

func TestCommissionCostMonotonic(t *testing.T) {
	base := CommissionCost(100, 1, 1.0, 10)

	if got := CommissionCost(100, 1, 2.0, 10); got < base {
		t.Errorf("raising fixed lowered cost: %v < %v", got, base)
	}
	if got := CommissionCost(100, 1, 1.0, 20); got < base {
		t.Errorf("raising bps lowered cost: %v < %v", got, base)
	}
	if got := CommissionCost(150, 1, 1.0, 10); got < base {
		t.Errorf("raising price lowered cost: %v < %v", got, base)
	}
	if got := CommissionCost(100, 3, 1.0, 10); got < base {
		t.Errorf("raising qty lowered cost: %v < %v", got, base)
	}

	// Never below the fixed component for non-negative inputs.
	if got := CommissionCost(0, 0, 1.5, 100); got < 1.5 {
		t.Errorf("cost = %v, want >= fixed 1.5", got)
	}
}
