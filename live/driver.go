// Package live polls the broker during market hours and drives the
// session state machine from the same entry and exit rules the replay
// uses. One driver manages one contract for one trading day.
package live

import (
	"context"
	"log"
	"time"

	"github.com/vinayrajsn007/ce-trader/broker"
	"github.com/vinayrajsn007/ce-trader/indicators"
	"github.com/vinayrajsn007/ce-trader/journal"
	"github.com/vinayrajsn007/ce-trader/market"
	"github.com/vinayrajsn007/ce-trader/risk"
	"github.com/vinayrajsn007/ce-trader/session"
	"github.com/vinayrajsn007/ce-trader/signal"
)

const fillPollInterval = time.Second

// Config sets the polling cadence and sizing for one live session.
type Config struct {
	Instrument market.Instrument
	Window     market.Window

	PollInterval      time.Duration // confirm-frame check cadence
	PrimaryCheckEvery time.Duration // primary-frame check cadence
	FillWait          time.Duration // max wait before the quote fallback

	CapitalFraction float64

	ConfirmInterval market.Interval
	PrimaryInterval market.Interval
}

// DefaultConfig polls the confirm frame every ten seconds and the
// primary frame every two minutes.
func DefaultConfig(inst market.Instrument) Config {
	return Config{
		Instrument:        inst,
		Window:            market.DefaultWindow(),
		PollInterval:      10 * time.Second,
		PrimaryCheckEvery: 2 * time.Minute,
		FillWait:          15 * time.Second,
		CapitalFraction:   0.90,
		ConfirmInterval:   market.Minute2,
		PrimaryInterval:   market.Minute5,
	}
}

// Deps are the broker collaborators the driver polls.
type Deps struct {
	Candles broker.CandleSource
	Quotes  broker.Quoter
	Capital broker.CapitalSource
	Orders  broker.OrderExecutor
	Clock   broker.Clock
	Journal journal.Journal // optional
	Logger  *log.Logger     // optional, defaults to the standard logger
}

// Driver runs the live trading loop.
type Driver struct {
	cfg  Config
	deps Deps
	sess *session.Session

	evalEntry func([]indicators.Row) (bool, signal.ConditionSet)
	evalExit  func([]indicators.Row) (bool, signal.ExitReason, signal.ConditionSet)
}

// NewDriver wires a driver. Clock defaults to the system clock.
func NewDriver(cfg Config, deps Deps) *Driver {
	if deps.Clock == nil {
		deps.Clock = broker.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return &Driver{
		cfg:       cfg,
		deps:      deps,
		sess:      session.New(),
		evalEntry: signal.EvaluateEntry,
		evalExit:  signal.EvaluateExit,
	}
}

// Session exposes the trade ledger, complete once Run returns.
func (d *Driver) Session() *session.Session { return d.sess }

// Run polls until the market closes or the context is cancelled. A
// cancelled context drains any open position at the last traded price
// before returning; the position never outlives the loop.
func (d *Driver) Run(ctx context.Context) error {
	var lastPrimary time.Time

	for {
		if err := ctx.Err(); err != nil {
			return d.drain(signal.ExitUserStop)
		}

		now := d.deps.Clock.Now()

		if !d.cfg.Window.IsOpen(now) {
			if d.cfg.Window.MinutesToClose(now) == 0 {
				// Past close. Positions should already be gone, but a
				// slow fill can leave one behind.
				return d.drain(signal.ExitMarketClose)
			}
			d.deps.Clock.Sleep(d.cfg.PollInterval)
			continue
		}

		if d.sess.InPosition() {
			if err := d.manage(ctx, now); err != nil {
				d.deps.Logger.Printf("live: manage: %v", err)
			}
		} else {
			// Flat past the entry cutoff: the day is over for us.
			if d.cfg.Window.StopNewTrades(now) {
				return nil
			}
			if err := d.seek(ctx, now, &lastPrimary); err != nil {
				d.deps.Logger.Printf("live: seek: %v", err)
			}
		}

		d.deps.Clock.Sleep(d.cfg.PollInterval)
	}
}

// manage evaluates the exit rules for the open position.
func (d *Driver) manage(ctx context.Context, now time.Time) error {
	rows, err := d.confirmRows(ctx, now)
	if err != nil {
		return err
	}

	exit, reason, _ := d.evalExit(rows)
	if !exit && d.cfg.Window.StopNewTrades(now) {
		// Square off ahead of close rather than carry into auction.
		exit, reason = true, signal.ExitMarketClose
	}
	if !exit {
		return nil
	}
	return d.exit(ctx, reason)
}

// seek looks for a double-confirmed entry.
func (d *Driver) seek(ctx context.Context, now time.Time, lastPrimary *time.Time) error {
	rows, err := d.confirmRows(ctx, now)
	if err != nil {
		return err
	}
	confirmOK, _ := d.evalEntry(rows)

	primaryOK := false
	if confirmOK {
		// Decision point: the primary verdict must hold right now, a
		// cached one from the last cadence check is not enough.
		primaryOK, err = d.checkPrimary(ctx, now)
		if err != nil {
			return err
		}
		*lastPrimary = now
	} else if now.Sub(*lastPrimary) >= d.cfg.PrimaryCheckEvery {
		if _, err := d.checkPrimary(ctx, now); err != nil {
			return err
		}
		*lastPrimary = now
	}

	if !confirmOK || !primaryOK {
		return nil
	}
	if d.cfg.Window.IsWatchOnly(now) {
		d.deps.Logger.Printf("live: %s signal during watch-only window, holding",
			d.cfg.Instrument.Symbol)
		return nil
	}
	return d.enter(ctx, now)
}

func (d *Driver) checkPrimary(ctx context.Context, now time.Time) (bool, error) {
	rows, err := d.rows(ctx, now, d.cfg.PrimaryInterval)
	if err != nil {
		return false, err
	}
	ok, _ := d.evalEntry(rows)
	return ok, nil
}

// enter sizes and buys one position.
func (d *Driver) enter(ctx context.Context, now time.Time) error {
	balance, err := d.deps.Capital.AvailableCapital(ctx)
	if err != nil {
		return err
	}
	capital := risk.TradingCapital(balance, d.cfg.CapitalFraction)

	premium, err := d.deps.Quotes.LTP(ctx, d.cfg.Instrument.Exchange, d.cfg.Instrument.Symbol)
	if err != nil {
		return err
	}

	qty := risk.Quantity(capital, premium, d.cfg.Instrument.LotSize)
	if qty == 0 {
		d.deps.Logger.Printf("live: capital %.2f cannot cover one lot of %s at %.2f",
			capital, d.cfg.Instrument.Symbol, premium)
		return nil
	}

	orderID, err := d.deps.Orders.SubmitOrder(ctx, d.cfg.Instrument.Exchange,
		d.cfg.Instrument.Symbol, broker.Buy, qty)
	if err != nil {
		return err
	}

	price, err := d.fillOrFallback(ctx, orderID)
	if err != nil {
		return err
	}

	if err := d.sess.ConfirmEntry(d.cfg.Instrument.Symbol, price, d.deps.Clock.Now(), qty); err != nil {
		return err
	}
	d.deps.Logger.Printf("live: bought %d %s at %.2f", qty, d.cfg.Instrument.Symbol, price)
	return nil
}

// exit sells the open position and records the trade.
func (d *Driver) exit(ctx context.Context, reason signal.ExitReason) error {
	pos := d.sess.Position()

	orderID, err := d.deps.Orders.SubmitOrder(ctx, d.cfg.Instrument.Exchange,
		pos.Symbol, broker.Sell, pos.Quantity)
	if err != nil {
		return err
	}

	price, err := d.fillOrFallback(ctx, orderID)
	if err != nil {
		return err
	}

	trade, err := d.sess.ConfirmExit(price, d.deps.Clock.Now(), reason)
	if err != nil {
		return err
	}
	d.deps.Logger.Printf("live: sold %d %s at %.2f, pnl %.2f (%s)",
		trade.Quantity, trade.Symbol, price, trade.PnL, trade.ExitReason)

	if d.deps.Journal != nil {
		if err := d.deps.Journal.RecordTrade(trade); err != nil {
			d.deps.Logger.Printf("live: journal: %v", err)
		}
	}
	return nil
}

// drain closes any open position on the way out. The stop reason is
// recorded on the trade.
func (d *Driver) drain(reason signal.ExitReason) error {
	if !d.sess.InPosition() {
		return nil
	}
	// The loop context is gone; the square-off gets its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return d.exit(ctx, reason)
}

// fillOrFallback polls for the fill price, settling for the last traded
// price when the broker does not confirm in time. The trade must still
// be recorded either way.
func (d *Driver) fillOrFallback(ctx context.Context, orderID string) (float64, error) {
	deadline := d.deps.Clock.Now().Add(d.cfg.FillWait)
	for d.deps.Clock.Now().Before(deadline) {
		price, filled, err := d.deps.Orders.FillPrice(ctx, orderID)
		if err != nil {
			return 0, err
		}
		if filled {
			return price, nil
		}
		d.deps.Clock.Sleep(fillPollInterval)
	}
	d.deps.Logger.Printf("live: order %s unconfirmed after %s, using last traded price",
		orderID, d.cfg.FillWait)
	return d.deps.Quotes.LTP(ctx, d.cfg.Instrument.Exchange, d.cfg.Instrument.Symbol)
}

// confirmRows fetches and computes the confirm-frame indicator rows.
func (d *Driver) confirmRows(ctx context.Context, now time.Time) ([]indicators.Row, error) {
	return d.rows(ctx, now, d.cfg.ConfirmInterval)
}

// rows fetches enough history for one indicator window ending at now.
func (d *Driver) rows(ctx context.Context, now time.Time, interval market.Interval) ([]indicators.Row, error) {
	// Fetch twice the window to ride out exchange gaps and the odd
	// missing bar.
	span := time.Duration(2*indicators.MinLookback) * interval.Duration()
	candles, err := d.deps.Candles.GetCandles(ctx, d.cfg.Instrument.Token, interval, now.Add(-span), now)
	if err != nil {
		return nil, err
	}
	return indicators.Compute(market.TrailingWindow(candles, now, indicators.MinLookback)), nil
}
