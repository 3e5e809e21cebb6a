package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vinayrajsn007/ce-trader/session"
)

func ledgerTrade(seq int, pnl, pnlPct float64, minutes int) session.Trade {
	entry := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Hour)
	return session.Trade{
		ID:         "trade",
		Seq:        seq,
		Symbol:     "NIFTYCE",
		EntryTime:  entry,
		ExitTime:   entry.Add(time.Duration(minutes) * time.Minute),
		EntryPrice: 100,
		ExitPrice:  100 + pnl/65,
		Quantity:   65,
		PnL:        pnl,
		PnLPct:     pnlPct,
	}
}

func TestComputeMetricsEmptyLedger(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Metrics{}, ComputeMetrics(nil, 100_000))
}

func TestComputeMetricsLedger(t *testing.T) {
	t.Parallel()

	trades := []session.Trade{
		ledgerTrade(1, 500, 0.5, 20),
		ledgerTrade(2, -200, -0.2, 10),
		ledgerTrade(3, 300, 0.3, 30),
	}

	m := ComputeMetrics(trades, 100_000)

	assert.Equal(t, 3, m.TotalTrades)
	assert.Equal(t, 2, m.Wins)
	assert.Equal(t, 1, m.Losses)
	assert.InDelta(t, 66.6667, m.WinRate, 0.001)
	assert.InDelta(t, 600, m.TotalPnL, 1e-9)
	assert.InDelta(t, 0.6, m.TotalPnLPct, 1e-9)
	assert.InDelta(t, 400, m.AvgWin, 1e-9)
	assert.InDelta(t, -200, m.AvgLoss, 1e-9)
	assert.InDelta(t, 20, m.AvgDurationMinutes, 1e-9)

	// Balance walks 100000 -> 100500 -> 100300 -> 100600; the only
	// decline is the 200 dip off the 100500 peak.
	assert.InDelta(t, 200.0/100500*100, m.MaxDrawdownPct, 1e-9)

	// Per-trade returns 0.5, -0.2, 0.3: mean 0.2, population std
	// sqrt(0.26/3), annualized by sqrt(252).
	assert.InDelta(t, 10.7846, m.SharpeRatio, 0.001)
}

func TestComputeMetricsSingleTradeNoSharpe(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics([]session.Trade{ledgerTrade(1, 500, 0.5, 20)}, 100_000)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 100.0, m.WinRate)
	assert.Equal(t, 0.0, m.MaxDrawdownPct)
}

func TestComputeMetricsFlatReturnsNoSharpe(t *testing.T) {
	t.Parallel()

	trades := []session.Trade{
		ledgerTrade(1, 300, 0.3, 20),
		ledgerTrade(2, 300, 0.3, 20),
	}
	assert.Equal(t, 0.0, ComputeMetrics(trades, 100_000).SharpeRatio)
}

func TestComputeMetricsAllLossesDrawdown(t *testing.T) {
	t.Parallel()

	trades := []session.Trade{
		ledgerTrade(1, -1000, -1, 20),
		ledgerTrade(2, -1000, -1, 20),
	}
	m := ComputeMetrics(trades, 100_000)
	assert.Equal(t, 0, m.Wins)
	assert.Equal(t, 0.0, m.WinRate)
	assert.InDelta(t, 2000.0/100_000*100, m.MaxDrawdownPct, 1e-9)
}
