package portfolio

import "quantbt/internal/domain"

// Portfolio is a cash ledger plus a set of positions keyed by instrument
// identity. Applying a trade moves cash by the trade's signed cash flow and
// delegates the fill to the matching position.
type Portfolio struct {
	cash        float64
	positions   map[string]*Position
	realizedPnL float64
}

// NewPortfolio creates a Portfolio with the given starting cash.
func NewPortfolio(startingCash float64) *Portfolio {
	return &Portfolio{
		cash:      startingCash,
		positions: make(map[string]*Position),
	}
}

// Cash returns the current cash balance.
func (pf *Portfolio) Cash() float64 { return pf.cash }

// RealizedPnL returns the aggregate realized PnL over all positions.
func (pf *Portfolio) RealizedPnL() float64 { return pf.realizedPnL }

// GetOrCreate returns the position for the instrument, creating an empty one
// on first use.
func (pf *Portfolio) GetOrCreate(ins domain.Instrument) *Position {
	key := ins.Key()
	pos, ok := pf.positions[key]
	if !ok {
		pos = NewPosition(ins)
		pf.positions[key] = pos
	}
	return pos
}

// ApplyTrade applies an executed fill: cash moves by the trade's signed cash
// flow, the instrument's position absorbs the fill, and the aggregate
// realized PnL is recomputed. An invalid fill leaves the portfolio unchanged.
func (pf *Portfolio) ApplyTrade(t domain.Trade) error {
	pos := pf.GetOrCreate(t.Order.Instrument)
	if err := pos.ApplyFill(t.Price, t.Qty, t.Side() == domain.SideBuy); err != nil {
		return err
	}
	pf.cash += t.SignedCash()
	pf.realizedPnL = pf.aggregateRealized()
	return nil
}

// NAVFor returns the net asset value with respect to one instrument at the
// given mark price: cash when no position exists, otherwise
// cash + qty x avgPrice + unrealized PnL at the mark.
func (pf *Portfolio) NAVFor(ins domain.Instrument, markPrice float64) float64 {
	pos, ok := pf.positions[ins.Key()]
	if !ok {
		return pf.cash
	}
	return pf.cash + pos.Qty()*pos.AvgPrice() + pos.UnrealizedPnL(markPrice)
}

func (pf *Portfolio) aggregateRealized() float64 {
	var sum float64
	for _, pos := range pf.positions {
		sum += pos.RealizedPnL()
	}
	return sum
}
