// Package portfolio implements per-instrument position accounting and the
// cash-ledger portfolio that aggregates it. Position and Portfolio take only
// plain data; they carry no logger or configuration dependencies.
package portfolio

import (
	"errors"

	"quantbt/internal/domain"
)

// ErrInvalidFill is returned when a fill with a non-positive price or
// quantity is applied. The position is left unchanged.
var ErrInvalidFill = errors.New("position: fill price and quantity must be > 0")

// Position tracks the net quantity and weighted-average entry price for one
// instrument, accumulating realized PnL as closing fills arrive.
type Position struct {
	instrument  domain.Instrument
	qty         float64
	avgPrice    float64
	realizedPnL float64
}

// NewPosition creates an empty position for the given instrument.
func NewPosition(instrument domain.Instrument) *Position {
	return &Position{instrument: instrument}
}

// Instrument returns the instrument this position is held in.
func (p *Position) Instrument() domain.Instrument { return p.instrument }

// Qty returns the net signed quantity.
func (p *Position) Qty() float64 { return p.qty }

// AvgPrice returns the weighted-average entry price, or 0 when flat.
func (p *Position) AvgPrice() float64 { return p.avgPrice }

// RealizedPnL returns the cumulative realized profit and loss.
func (p *Position) RealizedPnL() float64 { return p.realizedPnL }

// ApplyFill applies an executed fill to the position.
//
// A buy folds the fill into the weighted-average entry price:
//
//	newAvg = (qty*avg + fillQty*fillPrice) / (qty + fillQty)
//
// A sell closes up to the held quantity, realizing
// (fillPrice − avg) × closedQty; the average price is untouched by partial
// closes and resets to 0 when the position goes flat.
func (p *Position) ApplyFill(fillPrice, fillQty float64, isBuy bool) error {
	if fillPrice <= 0 || fillQty <= 0 {
		return ErrInvalidFill
	}

	if isBuy {
		newQty := p.qty + fillQty
		p.avgPrice = (p.qty*p.avgPrice + fillQty*fillPrice) / newQty
		p.qty = newQty
		return nil
	}

	closedQty := min(p.qty, fillQty)
	p.realizedPnL += (fillPrice - p.avgPrice) * closedQty
	p.qty -= closedQty
	if p.qty == 0 {
		p.avgPrice = 0
	}
	return nil
}

// UnrealizedPnL returns the mark-to-market profit of the open quantity at
// the given mark price.
func (p *Position) UnrealizedPnL(markPrice float64) float64 {
	return (markPrice - p.avgPrice) * p.qty
}
