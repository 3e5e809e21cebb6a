package backtest

import (
	"math"

	"github.com/vinayrajsn007/ce-trader/session"
)

// Metrics summarizes a closed-trade ledger.
type Metrics struct {
	TotalTrades int   `json:"total_trades"`
	Wins        int   `json:"wins"`
	Losses      int   `json:"losses"`

	WinRate     float64 `json:"win_rate"`      // percent in [0, 100]
	TotalPnL    float64 `json:"total_pnl"`
	TotalPnLPct float64 `json:"total_pnl_pct"` // relative to initial balance
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"`

	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`

	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
}

// ComputeMetrics derives session metrics from closed trades in order.
// An empty ledger yields the zero value.
func ComputeMetrics(trades []session.Trade, initialBalance float64) Metrics {
	var m Metrics
	m.TotalTrades = len(trades)
	if len(trades) == 0 {
		return m
	}

	var winSum, lossSum float64
	var durationSum float64
	for _, t := range trades {
		m.TotalPnL += t.PnL
		durationSum += t.Duration().Minutes()
		if t.PnL > 0 {
			m.Wins++
			winSum += t.PnL
		} else {
			m.Losses++
			lossSum += t.PnL
		}
	}

	m.WinRate = float64(m.Wins) / float64(m.TotalTrades) * 100
	if m.Wins > 0 {
		m.AvgWin = winSum / float64(m.Wins)
	}
	if m.Losses > 0 {
		m.AvgLoss = lossSum / float64(m.Losses)
	}
	if initialBalance > 0 {
		m.TotalPnLPct = m.TotalPnL / initialBalance * 100
	}
	m.AvgDurationMinutes = durationSum / float64(m.TotalTrades)
	m.MaxDrawdownPct = maxDrawdownPct(trades, initialBalance)
	m.SharpeRatio = sharpe(trades)
	return m
}

// maxDrawdownPct walks the balance curve implied by the ledger and
// returns the largest peak-to-trough decline as a percent of the peak.
func maxDrawdownPct(trades []session.Trade, initialBalance float64) float64 {
	balance := initialBalance
	peak := initialBalance
	var maxDD float64
	for _, t := range trades {
		balance += t.PnL
		if balance > peak {
			peak = balance
		}
		if peak > 0 {
			if dd := (peak - balance) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpe annualizes the mean over standard deviation of per-trade
// percent returns by the square root of the trading-day count. Fewer
// than two trades, or a flat return series, reports zero.
func sharpe(trades []session.Trade) float64 {
	if len(trades) < 2 {
		return 0
	}
	returns := make([]float64, len(trades))
	var mean float64
	for i, t := range trades {
		returns[i] = t.PnLPct
		mean += t.PnLPct
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(252)
}
