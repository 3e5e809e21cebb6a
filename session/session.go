// Package session owns the trade lifecycle for a single trading day:
// the flat/open state machine, the live position and the append-only
// ledger of completed trades. One Session instance is created per run
// and passed explicitly to whatever drives it; nothing here is global.
package session

import (
	"errors"
	"time"

	"github.com/vinayrajsn007/ce-trader/pkg/id"
	"github.com/vinayrajsn007/ce-trader/signal"
)

// State is the lifecycle state: flat or holding one open position.
type State int8

const (
	Flat State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "OPEN"
	}
	return "FLAT"
}

// Lifecycle invariant violations. Both are defensive rejections: the
// transition is refused and state is left untouched.
var (
	ErrPositionOpen = errors.New("session: position already open")
	ErrNoPosition   = errors.New("session: no open position")
)

// Position is the single live position. At most one exists per session.
type Position struct {
	Symbol     string
	EntryTime  time.Time
	EntryPrice float64
	Quantity   int64
}

// Trade is an immutable completed-trade record. Seq numbers start at 1
// and increase by one per trade; ID is a ULID for journaling.
type Trade struct {
	ID         string
	Seq        int
	Symbol     string
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   int64
	PnL        float64
	PnLPct     float64
	ExitReason signal.ExitReason
}

// Duration is the holding time of the trade.
func (t Trade) Duration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// Session tracks lifecycle state and the trade ledger for one day.
// It is not safe for concurrent use; the drivers are single-threaded
// and mutate it only through ConfirmEntry/ConfirmExit.
type Session struct {
	state    State
	position Position
	trades   []Trade
	totalPnL float64
}

// New returns an empty session in the Flat state.
func New() *Session {
	return &Session{}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// InPosition reports whether a position is open.
func (s *Session) InPosition() bool { return s.state == Open }

// Position returns the open position. Only meaningful while InPosition.
func (s *Session) Position() Position { return s.position }

// Trades returns the completed trades so far, in execution order.
func (s *Session) Trades() []Trade { return s.trades }

// TotalPnL returns the sum of realized P&L across the ledger.
func (s *Session) TotalPnL() float64 { return s.totalPnL }

// ConfirmEntry transitions Flat -> Open with a filled entry. A second
// entry while open is rejected with ErrPositionOpen and changes nothing.
func (s *Session) ConfirmEntry(symbol string, price float64, at time.Time, quantity int64) error {
	if s.state == Open {
		return ErrPositionOpen
	}
	if price <= 0 || quantity <= 0 {
		return errors.New("session: entry needs positive price and quantity")
	}
	s.position = Position{
		Symbol:     symbol,
		EntryTime:  at,
		EntryPrice: price,
		Quantity:   quantity,
	}
	s.state = Open
	return nil
}

// ConfirmExit transitions Open -> Flat, converting the position into a
// Trade appended to the ledger. Exiting while flat is rejected with
// ErrNoPosition and changes nothing.
func (s *Session) ConfirmExit(price float64, at time.Time, reason signal.ExitReason) (Trade, error) {
	if s.state != Open {
		return Trade{}, ErrNoPosition
	}

	p := s.position
	pnl := (price - p.EntryPrice) * float64(p.Quantity)
	pnlPct := 0.0
	if p.EntryPrice != 0 {
		pnlPct = (price - p.EntryPrice) / p.EntryPrice * 100
	}

	trade := Trade{
		ID:         id.New(),
		Seq:        len(s.trades) + 1,
		Symbol:     p.Symbol,
		EntryTime:  p.EntryTime,
		ExitTime:   at,
		EntryPrice: p.EntryPrice,
		ExitPrice:  price,
		Quantity:   p.Quantity,
		PnL:        pnl,
		PnLPct:     pnlPct,
		ExitReason: reason,
	}
	s.trades = append(s.trades, trade)
	s.totalPnL += pnl
	s.position = Position{}
	s.state = Flat
	return trade, nil
}
