// Package broker defines the collaborator contracts the trading engine
// consumes: market data, instrument selection, account capital, order
// execution and the clock. The engine never talks to a brokerage
// directly; broker/kite provides the real implementations and tests
// substitute fakes.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/vinayrajsn007/ce-trader/market"
)

// ErrNoData reports that a data request returned nothing. Live drivers
// back off and retry; the backtest treats it as fatal for the session.
var ErrNoData = errors.New("broker: no data available")

// Side is the order direction.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// CandleSource supplies historical OHLC candles for an instrument.
// Implementations return candles ordered by time with no duplicates,
// and exclude malformed rows; an empty result is valid.
type CandleSource interface {
	GetCandles(ctx context.Context, token int64, interval market.Interval, from, to time.Time) ([]market.Candle, error)
}

// Quoter returns the last traded price for a trading symbol.
type Quoter interface {
	LTP(ctx context.Context, exchange, symbol string) (float64, error)
}

// OptionSelector picks the option contract to trade. The selection
// logic lives outside the core engine; the engine treats the returned
// Instrument as opaque.
type OptionSelector interface {
	Select(ctx context.Context, expiry time.Time) (market.Instrument, error)
}

// CapitalSource reports the account balance deployable for trading.
type CapitalSource interface {
	AvailableCapital(ctx context.Context) (float64, error)
}

// OrderExecutor submits market orders and reports their fills.
// FillPrice returns filled=false while the order is still pending;
// after a bounded wait the driver falls back to the last quoted price.
type OrderExecutor interface {
	SubmitOrder(ctx context.Context, exchange, symbol string, side Side, quantity int64) (orderID string, err error)
	FillPrice(ctx context.Context, orderID string) (price float64, filled bool, err error)
}

// Clock abstracts "now" in the exchange-local calendar so drivers can
// be tested without real delays. The backtest derives time from the
// candle being replayed instead.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock in IST.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now().In(market.IST) }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
