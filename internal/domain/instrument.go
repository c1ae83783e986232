package domain

import "errors"

// AssetClass is the high-level classification of an instrument.
type AssetClass string

// Supported asset classes.
const (
	AssetEquity  AssetClass = "equity"
	AssetETF     AssetClass = "etf"
	AssetFuture  AssetClass = "future"
	AssetOption  AssetClass = "option"
	AssetFX      AssetClass = "fx"
	AssetBond    AssetClass = "bond"
	AssetCrypto  AssetClass = "crypto"
	AssetUnknown AssetClass = "unknown"
)

// Currency is the trading/settlement currency (subset of ISO 4217).
type Currency string

// Supported currencies.
const (
	CurrencyUSD     Currency = "USD"
	CurrencyEUR     Currency = "EUR"
	CurrencyPLN     Currency = "PLN"
	CurrencyGBP     Currency = "GBP"
	CurrencyJPY     Currency = "JPY"
	CurrencyUnknown Currency = "unknown"
)

// Errors reported by NewInstrument.
var (
	ErrEmptySymbol   = errors.New("instrument: symbol must not be empty")
	ErrEmptyVenue    = errors.New("instrument: venue MIC must not be empty")
	ErrBadTickSize   = errors.New("instrument: tick size must be positive")
	ErrBadLotSize    = errors.New("instrument: lot size must be positive")
	ErrBadMultiplier = errors.New("instrument: multiplier must be positive")
)

// Instrument is an immutable description of a tradable security: its symbol,
// primary venue (MIC code), classification, and trading parameters. Identity
// for accounting purposes is the (Symbol, Venue) pair.
type Instrument struct {
	Symbol     string
	Venue      string
	Class      AssetClass
	Currency   Currency
	TickSize   float64
	LotSize    int
	Multiplier float64
}

// NewInstrument validates and constructs an Instrument. Symbol and venue must
// be non-empty; tick size, lot size, and multiplier must be strictly
// positive.
func NewInstrument(symbol, venue string, class AssetClass, currency Currency, tickSize float64, lotSize int, multiplier float64) (Instrument, error) {
	switch {
	case symbol == "":
		return Instrument{}, ErrEmptySymbol
	case venue == "":
		return Instrument{}, ErrEmptyVenue
	case tickSize <= 0:
		return Instrument{}, ErrBadTickSize
	case lotSize <= 0:
		return Instrument{}, ErrBadLotSize
	case multiplier <= 0:
		return Instrument{}, ErrBadMultiplier
	}
	return Instrument{
		Symbol:     symbol,
		Venue:      venue,
		Class:      class,
		Currency:   currency,
		TickSize:   tickSize,
		LotSize:    lotSize,
		Multiplier: multiplier,
	}, nil
}

// NewEquity constructs a USD equity with conventional trading parameters
// (0.01 tick, lot of 1, multiplier 1).
func NewEquity(symbol, venue string) (Instrument, error) {
	return NewInstrument(symbol, venue, AssetEquity, CurrencyUSD, 0.01, 1, 1.0)
}

// Key returns the accounting identity of the instrument, "SYMBOL@VENUE".
func (i Instrument) Key() string {
	return i.Symbol + "@" + i.Venue
}
