// Package backtest replays a bar series through a strategy and computes the
// resulting equity under a configurable execution-cost model.
package backtest

// ExecParams configures the simulated execution costs of a run.
type ExecParams struct {
	// CommissionFixed is charged per trade, in currency units.
	CommissionFixed float64
	// CommissionBps is charged per trade as basis points of notional.
	CommissionBps float64
	// SlippageBps adjusts the fill price in basis points: buys fill higher,
	// sells fill lower.
	SlippageBps float64
}

// ApplySlippage returns the fill price after slippage: px*(1+bps/10000) for
// buys, px*(1-bps/10000) for sells. Zero bps is a no-op and negative bps
// simply reverses the adjustment direction; callers own sane configuration.
func ApplySlippage(px, bps float64, isBuy bool) float64 {
	factor := bps / 10000.0
	if isBuy {
		return px * (1.0 + factor)
	}
	return px * (1.0 - factor)
}

// CommissionCost returns the fee for a fill: fixed plus bps of the notional
// px*qty. For non-negative inputs the result is never below fixed.
func CommissionCost(px, qty, fixed, bps float64) float64 {
	notional := px * qty
	return fixed + (bps/10000.0)*notional
}
