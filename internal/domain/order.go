package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Side is the direction of an order or fill.
type Side string

// Order sides.
const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType is the execution style of an order. The engine only simulates
// market orders.
type OrderType string

// Order types.
const (
	OrderTypeMarket OrderType = "market"
)

// Errors reported by the Order and Trade constructors.
var (
	ErrBadOrderQty  = errors.New("order: quantity must be > 0")
	ErrBadFillPrice = errors.New("trade: executed price must be > 0")
	ErrBadFillQty   = errors.New("trade: executed quantity must be > 0")
)

// Order is an immutable record of trading intent: what instrument to trade,
// in which direction, and how much. Ts is epoch milliseconds.
type Order struct {
	ID         string
	Instrument Instrument
	Side       Side
	Type       OrderType
	Qty        float64
	Ts         int64
}

// NewOrder validates and constructs a market Order. Quantity must be
// strictly positive.
func NewOrder(instrument Instrument, side Side, qty float64, ts int64) (Order, error) {
	if qty <= 0 {
		return Order{}, ErrBadOrderQty
	}
	return Order{
		ID:         uuid.NewString(),
		Instrument: instrument,
		Side:       side,
		Type:       OrderTypeMarket,
		Qty:        qty,
		Ts:         ts,
	}, nil
}

// Trade is an immutable record of an executed fill. It references the
// originating order and carries the executed price and quantity. EntryPrice
// is optional (zero when unset) and attributes the entry used for per-fill
// PnL reporting on closing fills.
type Trade struct {
	Order      Order
	Price      float64
	Qty        float64
	Ts         int64
	EntryPrice float64
}

// NewTrade validates and constructs a Trade. Executed price and quantity
// must both be strictly positive.
func NewTrade(order Order, price, qty float64, ts int64) (Trade, error) {
	if price <= 0 {
		return Trade{}, ErrBadFillPrice
	}
	if qty <= 0 {
		return Trade{}, ErrBadFillQty
	}
	return Trade{Order: order, Price: price, Qty: qty, Ts: ts}, nil
}

// NewTradeWithEntry constructs a Trade that records the entry price used for
// per-fill PnL attribution.
func NewTradeWithEntry(order Order, price, qty float64, ts int64, entryPrice float64) (Trade, error) {
	t, err := NewTrade(order, price, qty, ts)
	if err != nil {
		return Trade{}, err
	}
	t.EntryPrice = entryPrice
	return t, nil
}

// Side returns the direction of the fill, taken from the originating order.
func (t Trade) Side() Side { return t.Order.Side }

// SignedCash returns the cash delta caused by the fill: negative for buys,
// positive for sells, with magnitude price x quantity.
func (t Trade) SignedCash() float64 {
	if t.Side() == SideBuy {
		return -t.Price * t.Qty
	}
	return t.Price * t.Qty
}

// FillPnL returns the per-fill profit for a closing trade relative to the
// recorded entry price, or 0 when no entry price was attributed.
func (t Trade) FillPnL() float64 {
	if t.EntryPrice == 0 {
		return 0
	}
	return (t.Price - t.EntryPrice) * t.Qty
}
