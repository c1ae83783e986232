// Package store persists quotes and backtest results in SQLite and provides
// the background worker that serializes writes behind an enqueue boundary.
package store

import (
	"context"
	"time"

	"quantbt/internal/domain"
)

// ResultRecord is a persisted backtest run summary.
type ResultRecord struct {
	ID             string    `json:"id"`
	Symbol         string    `json:"symbol"`
	Strategy       string    `json:"strategy"`
	InitialEquity  float64   `json:"initial_equity"`
	FinalEquity    float64   `json:"final_equity"`
	TradesExecuted int       `json:"trades_executed"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuoteStore persists and retrieves OHLCV bar data keyed by symbol.
type QuoteStore interface {
	// SaveQuotes upserts a batch of bars for the symbol.
	SaveQuotes(ctx context.Context, symbol string, bars []domain.Bar) error

	// LoadQuotes returns all bars for the symbol ordered by timestamp.
	LoadQuotes(ctx context.Context, symbol string) (*domain.BarSeries, error)

	// ListSymbols returns all distinct symbols with stored quotes.
	ListSymbols(ctx context.Context) ([]string, error)
}

// ResultStore persists backtest run summaries.
type ResultStore interface {
	// SaveResult inserts a run summary.
	SaveResult(ctx context.Context, rec ResultRecord) error

	// ListResults returns the most recent run summaries, up to limit.
	ListResults(ctx context.Context, limit int) ([]ResultRecord, error)
}
