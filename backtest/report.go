package backtest

import (
	"fmt"
	"io"
	"sort"
)

// Report writes a human-readable session summary. When no trade
// closed, the condition-failure tally explains what kept the rule from
// firing.
func (r *Result) Report(w io.Writer) {
	fmt.Fprintf(w, "Bars processed:     %d (skipped %d before entry window)\n", r.Processed, r.SkippedEarly)
	fmt.Fprintf(w, "Confirm signals:    %d\n", r.ConfirmSignals)
	fmt.Fprintf(w, "Primary checks:     %d (%d signalled)\n", r.PrimaryChecks, r.PrimarySignals)
	fmt.Fprintf(w, "Trades closed:      %d (%d wins / %d losses, %.1f%% win rate)\n",
		r.Metrics.TotalTrades, r.Metrics.Wins, r.Metrics.Losses, r.Metrics.WinRate)
	fmt.Fprintf(w, "Total P&L:          %.2f (%.2f%%)\n", r.Metrics.TotalPnL, r.Metrics.TotalPnLPct)
	fmt.Fprintf(w, "Avg win / loss:     %.2f / %.2f\n", r.Metrics.AvgWin, r.Metrics.AvgLoss)
	fmt.Fprintf(w, "Max drawdown:       %.2f%%\n", r.Metrics.MaxDrawdownPct)
	fmt.Fprintf(w, "Sharpe ratio:       %.2f\n", r.Metrics.SharpeRatio)
	fmt.Fprintf(w, "Avg trade duration: %.1f min\n", r.Metrics.AvgDurationMinutes)
	fmt.Fprintf(w, "Balance:            %.2f -> %.2f\n", r.InitialBalance, r.FinalBalance)

	if len(r.Trades) > 0 {
		fmt.Fprintln(w, "\nTrades:")
		for _, t := range r.Trades {
			fmt.Fprintf(w, "  #%d %s  %s @ %.2f -> %s @ %.2f  qty %d  pnl %.2f (%.2f%%)  exit %s\n",
				t.Seq, t.Symbol,
				t.EntryTime.Format("15:04"), t.EntryPrice,
				t.ExitTime.Format("15:04"), t.ExitPrice,
				t.Quantity, t.PnL, t.PnLPct, t.ExitReason)
		}
	}

	if len(r.ConditionFailures) > 0 {
		fmt.Fprintln(w, "\nEntry condition failures (primary checks):")
		type failure struct {
			name  string
			count int
		}
		failures := make([]failure, 0, len(r.ConditionFailures))
		for name, n := range r.ConditionFailures {
			failures = append(failures, failure{name, n})
		}
		sort.Slice(failures, func(i, j int) bool {
			if failures[i].count != failures[j].count {
				return failures[i].count > failures[j].count
			}
			return failures[i].name < failures[j].name
		})
		for _, f := range failures {
			fmt.Fprintf(w, "  %-22s %d\n", f.name, f.count)
		}
	}
}
