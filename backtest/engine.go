// Package backtest replays one historical session through the same
// indicator and signal code the live driver uses, with simulated fills,
// and derives performance metrics from the resulting trade ledger. The
// replay is a pure fold over the candle input: no wall clock, no
// randomness, bit-for-bit reproducible.
package backtest

import (
	"fmt"
	"time"

	"github.com/vinayrajsn007/ce-trader/indicators"
	"github.com/vinayrajsn007/ce-trader/market"
	"github.com/vinayrajsn007/ce-trader/session"
	"github.com/vinayrajsn007/ce-trader/signal"
)

// Config holds the replay parameters.
type Config struct {
	Symbol         string
	LotSize        int64   // units per lot; replays always trade one lot
	InitialBalance float64 // for P&L accounting only, not sizing

	// PrimaryEveryBars throttles primary-timeframe checks to every Nth
	// confirm bar, approximating the live cadence. The primary verdict
	// is only live on its check bars; between checks it is false.
	PrimaryEveryBars int

	Window market.Window
}

// DefaultConfig replays a NIFTY CE session: one 65-unit lot, primary
// checked every other 2-minute bar.
func DefaultConfig() Config {
	return Config{
		Symbol:           "NIFTYCE",
		LotSize:          65,
		InitialBalance:   100_000,
		PrimaryEveryBars: 2,
		Window:           market.DefaultWindow(),
	}
}

// Result is the outcome of one replayed session.
type Result struct {
	Metrics Metrics
	Trades  []session.Trade

	InitialBalance float64
	FinalBalance   float64

	// Replay counters, for the post-run report.
	Processed      int
	SkippedEarly   int // before the entry window opened
	PrimaryChecks  int
	PrimarySignals int
	ConfirmSignals int

	// ConditionFailures counts, per entry condition, how often it
	// failed during primary checks. Explains zero-trade sessions.
	ConditionFailures map[string]int
}

// Engine replays a session of confirm-timeframe candles, consulting a
// coarser primary series for double confirmation.
type Engine struct {
	cfg     Config
	confirm []market.Candle
	primary []market.Candle

	// Rule hooks default to the production evaluators; tests may pin
	// them to scripted verdicts to exercise replay mechanics alone.
	evalEntry func([]indicators.Row) (bool, signal.ConditionSet)
	evalExit  func([]indicators.Row) (bool, signal.ExitReason, signal.ConditionSet)
}

// NewEngine builds a replay over the given candle series. The confirm
// series drives the simulation clock; the primary series is consulted
// by trailing timestamp, mirroring what a live poll would fetch.
func NewEngine(cfg Config, confirm, primary []market.Candle) *Engine {
	if cfg.PrimaryEveryBars <= 0 {
		cfg.PrimaryEveryBars = 1
	}
	if cfg.LotSize <= 0 {
		cfg.LotSize = 65
	}
	return &Engine{
		cfg:       cfg,
		confirm:   confirm,
		primary:   primary,
		evalEntry: signal.EvaluateEntry,
		evalExit:  signal.EvaluateExit,
	}
}

// Run replays the session and returns its result. Missing data for
// either timeframe is a hard error; a series too short for indicator
// warm-up yields a zero-trade result with all-zero metrics.
func (e *Engine) Run() (*Result, error) {
	if len(e.confirm) == 0 {
		return nil, fmt.Errorf("backtest: empty confirm-timeframe series")
	}
	if len(e.primary) == 0 {
		return nil, fmt.Errorf("backtest: empty primary-timeframe series")
	}

	sess := session.New()
	balance := e.cfg.InitialBalance
	res := &Result{
		InitialBalance:    e.cfg.InitialBalance,
		ConditionFailures: make(map[string]int),
	}

	lastPrimaryIdx := -e.cfg.PrimaryEveryBars // first bar always checks primary

	for idx := indicators.MinLookback; idx < len(e.confirm); idx++ {
		now := e.confirm[idx].Time
		price := e.confirm[idx].Close

		// Nothing happens before the entry window opens; the watch-only
		// stretch is the live driver's concern, not the replay's.
		if !e.cfg.Window.IsOpen(now) || e.cfg.Window.IsPreTrade(now) {
			res.SkippedEarly++
			continue
		}

		// Past the entry cutoff nothing new can open; drain and stop.
		if e.cfg.Window.StopNewTrades(now) {
			if sess.InPosition() {
				balance += e.close(sess, price, now, signal.ExitMarketClose)
			}
			break
		}

		confirmRows := indicators.Compute(market.TrailingWindow(e.confirm, now, indicators.MinLookback))
		res.Processed++

		if sess.InPosition() {
			if ok, reason, _ := e.evalExit(confirmRows); ok {
				balance += e.close(sess, price, now, reason)
			}
			continue
		}

		confirmOK, _ := e.evalEntry(confirmRows)
		if confirmOK {
			res.ConfirmSignals++
		}

		primaryOK := false
		if idx-lastPrimaryIdx >= e.cfg.PrimaryEveryBars {
			lastPrimaryIdx = idx
			res.PrimaryChecks++

			primaryRows := indicators.Compute(market.TrailingWindow(e.primary, now, indicators.MinLookback))
			var cs signal.ConditionSet
			primaryOK, cs = e.evalEntry(primaryRows)
			if primaryOK {
				res.PrimarySignals++
			} else {
				for _, name := range cs.Failed() {
					res.ConditionFailures[name]++
				}
			}
		}

		if primaryOK && confirmOK {
			qty := e.cfg.LotSize // fixed one lot per replayed entry
			if err := sess.ConfirmEntry(e.cfg.Symbol, price, now, qty); err != nil {
				return nil, fmt.Errorf("backtest: entry at %s: %w", now, err)
			}
			balance -= price * float64(qty)
		}
	}

	// Whatever is still open closes on the last bar.
	if sess.InPosition() {
		last := e.confirm[len(e.confirm)-1]
		balance += e.close(sess, last.Close, last.Time, signal.ExitMarketClose)
	}

	res.Trades = sess.Trades()
	res.FinalBalance = balance
	res.Metrics = ComputeMetrics(res.Trades, e.cfg.InitialBalance)
	return res, nil
}

// close settles the open position and returns the sale proceeds.
func (e *Engine) close(sess *session.Session, price float64, at time.Time, reason signal.ExitReason) float64 {
	trade, err := sess.ConfirmExit(price, at, reason)
	if err != nil {
		// InPosition was just checked; this cannot happen single-threaded.
		panic(err)
	}
	return price * float64(trade.Quantity)
}
