package backtest

import (
	"quantbt/internal/domain"
	"quantbt/internal/strategy"
)

// Result summarizes a completed backtest run. TradesExecuted counts
// position-opening fills only; closes (including the forced end-of-series
// liquidation) are not counted.
type Result struct {
	InitialEquity  float64 `json:"initial_equity"`
	FinalEquity    float64 `json:"final_equity"`
	TradesExecuted int     `json:"trades_executed"`
}

// Engine replays a bar series through a strategy and settles the resulting
// signals against a simplified single-position account: at most one open
// position of one unit, no leverage, market orders only.
//
// Each Run call owns its account state, so separate Engine/Strategy pairs
// may run concurrently.
type Engine struct {
	initialEquity float64
	exec          ExecParams
}

// NewEngine creates an Engine starting from the given equity with the given
// execution-cost parameters.
func NewEngine(initialEquity float64, exec ExecParams) *Engine {
	return &Engine{
		initialEquity: initialEquity,
		exec:          exec,
	}
}

// Run executes the strategy over the series and returns the run summary.
//
// Buy signals while flat open a one-unit position at the slipped close,
// provided cash covers price plus fee; otherwise the signal is ignored. Sell
// signals while long close the position at the slipped close minus fee.
// Signals that do not match the current state are no-ops. A position still
// open after the last bar is liquidated at the final close through the same
// slippage and commission treatment as an ordinary sell.
func (e *Engine) Run(series *domain.BarSeries, strat strategy.Strategy) Result {
	r := Result{
		InitialEquity: e.initialEquity,
		FinalEquity:   e.initialEquity,
	}

	cash := e.initialEquity
	hasPos := false
	qty := 0.0

	strat.OnStart()

	for _, bar := range series.Bars() {
		sig := strat.OnBar(bar)

		switch {
		case sig == strategy.SignalBuy && !hasPos:
			pxExec := ApplySlippage(bar.Close, e.exec.SlippageBps, true)
			fee := CommissionCost(pxExec, 1.0, e.exec.CommissionFixed, e.exec.CommissionBps)

			if pxExec > 0 && cash >= pxExec+fee {
				hasPos = true
				qty = 1.0
				cash -= pxExec + fee
				r.TradesExecuted++
			}

		case sig == strategy.SignalSell && hasPos:
			pxExec := ApplySlippage(bar.Close, e.exec.SlippageBps, false)
			fee := CommissionCost(pxExec, qty, e.exec.CommissionFixed, e.exec.CommissionBps)

			hasPos = false
			cash += pxExec * qty
			cash -= fee
			qty = 0
		}

		r.FinalEquity = cash
		if hasPos {
			r.FinalEquity += bar.Close * qty
		}
	}

	strat.OnFinish()

	// Liquidate any open position at the last close through the normal
	// sell-side execution path.
	if hasPos {
		last, err := series.Back()
		if err == nil {
			pxExec := ApplySlippage(last.Close, e.exec.SlippageBps, false)
			fee := CommissionCost(pxExec, qty, e.exec.CommissionFixed, e.exec.CommissionBps)
			cash += pxExec*qty - fee
			r.FinalEquity = cash
		}
	}

	return r
}
