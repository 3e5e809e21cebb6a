// Package journal persists closed trades so sessions can be reviewed
// after the fact. Two backends exist: SQLite for querying and the daily
// summary, CSV for spreadsheet import.
package journal

import (
	"time"

	"github.com/vinayrajsn007/ce-trader/session"
)

// Journal records closed trades.
type Journal interface {
	RecordTrade(session.Trade) error
	Close() error
}

// DaySummary aggregates the trades closed on one calendar day.
type DaySummary struct {
	Day      time.Time
	Trades   int
	Wins     int
	Losses   int
	TotalPnL float64

	// ByReason counts exits per reason string.
	ByReason map[string]int
}

// Summarize folds a day's trades into a summary.
func Summarize(day time.Time, trades []session.Trade) DaySummary {
	s := DaySummary{Day: day, ByReason: make(map[string]int)}
	for _, t := range trades {
		s.Trades++
		s.TotalPnL += t.PnL
		if t.PnL > 0 {
			s.Wins++
		} else {
			s.Losses++
		}
		s.ByReason[string(t.ExitReason)]++
	}
	return s
}

// Multi fans RecordTrade out to several journals, e.g. SQLite plus CSV.
type Multi []Journal

func (m Multi) RecordTrade(t session.Trade) error {
	for _, j := range m {
		if err := j.RecordTrade(t); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, j := range m {
		if err := j.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
