// Package domain holds the core market-data and trading value objects shared
// by the backtest engine, the stores, and the application shell.
package domain

import "errors"

// Errors reported by BarSeries accessors.
var (
	ErrOutOfRange  = errors.New("bar series: index out of range")
	ErrEmptySeries = errors.New("bar series: empty")
)

// Bar is a single OHLCV sample. Ts is the bar timestamp in epoch
// milliseconds. Bars are immutable once appended to a series.
type Bar struct {
	Ts     int64   `json:"timestamp"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// BarSeries is an ordered, append-only collection of bars. Insertion order is
// assumed to be chronological; the container does not verify OHLC consistency
// or timestamp ordering. That is the ingestion layer's job.
//
// A BarSeries is built once before a run and is read-only while the engine
// iterates it. It is not safe for concurrent mutation.
type BarSeries struct {
	bars []Bar
}

// Add appends a bar to the series.
func (s *BarSeries) Add(b Bar) {
	s.bars = append(s.bars, b)
}

// Len returns the number of bars in the series.
func (s *BarSeries) Len() int { return len(s.bars) }

// IsEmpty reports whether the series holds no bars.
func (s *BarSeries) IsEmpty() bool { return len(s.bars) == 0 }

// At returns the bar at index i, or ErrOutOfRange if i is past the end.
func (s *BarSeries) At(i int) (Bar, error) {
	if i < 0 || i >= len(s.bars) {
		return Bar{}, ErrOutOfRange
	}
	return s.bars[i], nil
}

// Front returns the first bar, or ErrEmptySeries.
func (s *BarSeries) Front() (Bar, error) {
	if len(s.bars) == 0 {
		return Bar{}, ErrEmptySeries
	}
	return s.bars[0], nil
}

// Back returns the last bar, or ErrEmptySeries.
func (s *BarSeries) Back() (Bar, error) {
	if len(s.bars) == 0 {
		return Bar{}, ErrEmptySeries
	}
	return s.bars[len(s.bars)-1], nil
}

// Clear removes all bars from the series.
func (s *BarSeries) Clear() {
	s.bars = s.bars[:0]
}

// Bars returns the underlying bar slice for iteration. Callers must treat the
// returned slice as read-only.
func (s *BarSeries) Bars() []Bar { return s.bars }
