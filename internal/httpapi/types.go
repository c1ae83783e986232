package httpapi

import (
	"quantbt/internal/domain"
	"quantbt/internal/store"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the body of GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
}

// StrategiesResponse lists the registered strategy names.
type StrategiesResponse struct {
	Strategies []string `json:"strategies"`
}

// IngestResponse acknowledges an accepted CSV upload.
type IngestResponse struct {
	Symbol string `json:"symbol"`
	Bars   int    `json:"bars"`
}

// QuotesResponse carries the stored bars for one symbol.
type QuotesResponse struct {
	Symbol string       `json:"symbol"`
	Bars   []domain.Bar `json:"bars"`
}

// BacktestRequest names the symbol and strategy to run. Zero-valued cost
// fields fall back to the server's configured defaults.
type BacktestRequest struct {
	Symbol          string  `json:"symbol"`
	Strategy        string  `json:"strategy"`
	InitialEquity   float64 `json:"initial_equity,omitempty"`
	CommissionFixed float64 `json:"commission_fixed,omitempty"`
	CommissionBps   float64 `json:"commission_bps,omitempty"`
	SlippageBps     float64 `json:"slippage_bps,omitempty"`
}

// BacktestResponse is the body of POST /api/backtest.
type BacktestResponse struct {
	Result store.ResultRecord `json:"result"`
	Bars   int                `json:"bars"`
}

// BacktestsResponse is the body of GET /api/backtests.
type BacktestsResponse struct {
	Results []store.ResultRecord `json:"results"`
}
