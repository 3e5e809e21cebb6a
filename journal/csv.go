package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/vinayrajsn007/ce-trader/session"
)

type CSV struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"trade_id", "seq", "symbol", "entry_time", "exit_time",
		"entry_price", "exit_price", "quantity", "pnl", "pnl_pct", "exit_reason",
	}); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordTrade(t session.Trade) error {
	j.w.Write([]string{
		t.ID,
		strconv.Itoa(t.Seq),
		t.Symbol,
		t.EntryTime.Format(time.RFC3339),
		t.ExitTime.Format(time.RFC3339),
		f(t.EntryPrice),
		f(t.ExitPrice),
		strconv.FormatInt(t.Quantity, 10),
		f(t.PnL),
		f(t.PnLPct),
		string(t.ExitReason),
	})
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
