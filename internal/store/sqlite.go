package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"quantbt/internal/domain"
)

// Compile-time interface checks.
var _ QuoteStore = (*SQLiteStore)(nil)
var _ ResultStore = (*SQLiteStore)(nil)

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS quotes (
	symbol TEXT    NOT NULL,
	ts     INTEGER NOT NULL, -- epoch ms
	open   REAL    NOT NULL,
	high   REAL    NOT NULL,
	low    REAL    NOT NULL,
	close  REAL    NOT NULL,
	volume REAL    NOT NULL,
	PRIMARY KEY (symbol, ts)
);

CREATE TABLE IF NOT EXISTS backtests (
	id             TEXT    PRIMARY KEY,
	symbol         TEXT    NOT NULL,
	strategy       TEXT    NOT NULL,
	initial_equity REAL    NOT NULL,
	final_equity   REAL    NOT NULL,
	trades         INTEGER NOT NULL,
	created_at     INTEGER NOT NULL -- epoch ms
);
`

// SQLiteStore implements QuoteStore and ResultStore backed by a SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies the
// schema, and returns a ready-to-use store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// QuoteStore implementation
// ---------------------------------------------------------------------------

// SaveQuotes upserts the bars for symbol in one transaction.
func (s *SQLiteStore) SaveQuotes(ctx context.Context, symbol string, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quotes (symbol, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, ts) DO UPDATE SET
			open = excluded.open, high = excluded.high,
			low = excluded.low, close = excluded.close,
			volume = excluded.volume`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Ts, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("upserting quote %s@%d: %w", symbol, b.Ts, err)
		}
	}
	return tx.Commit()
}

// LoadQuotes returns all stored bars for symbol ordered by timestamp.
func (s *SQLiteStore) LoadQuotes(ctx context.Context, symbol string) (*domain.BarSeries, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, open, high, low, close, volume
		FROM quotes WHERE symbol = ? ORDER BY ts ASC`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := &domain.BarSeries{}
	for rows.Next() {
		var b domain.Bar
		if err := rows.Scan(&b.Ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		series.Add(b)
	}
	return series, rows.Err()
}

// ListSymbols returns all distinct symbols with stored quotes, sorted.
func (s *SQLiteStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM quotes ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// ---------------------------------------------------------------------------
// ResultStore implementation
// ---------------------------------------------------------------------------

// SaveResult inserts a run summary. A missing ID or CreatedAt is filled in.
func (s *SQLiteStore) SaveResult(ctx context.Context, rec ResultRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO backtests (id, symbol, strategy, initial_equity, final_equity, trades, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Symbol, rec.Strategy, rec.InitialEquity, rec.FinalEquity,
		rec.TradesExecuted, rec.CreatedAt.UnixMilli())
	return err
}

// ListResults returns the most recent run summaries, newest first.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, strategy, initial_equity, final_equity, trades, created_at
		FROM backtests ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		var createdMs int64
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Strategy, &rec.InitialEquity,
			&rec.FinalEquity, &rec.TradesExecuted, &createdMs); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, rec)
	}
	return out, rows.Err()
}
