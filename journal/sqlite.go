package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vinayrajsn007/ce-trader/session"
	"github.com/vinayrajsn007/ce-trader/signal"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t session.Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, seq, symbol, entry_time, exit_time, entry_price, exit_price, quantity, pnl, pnl_pct, exit_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Seq, t.Symbol, t.EntryTime, t.ExitTime,
		t.EntryPrice, t.ExitPrice, t.Quantity, t.PnL, t.PnLPct, string(t.ExitReason),
	)
	return err
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(tradeID string) (session.Trade, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, seq, symbol, entry_time, exit_time, entry_price, exit_price, quantity, pnl, pnl_pct, exit_reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	t, err := scanTrade(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return session.Trade{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return session.Trade{}, err
	}
	return t, nil
}

// ListTradesClosedBetween returns trades whose exit_time is within
// [start, end), oldest first.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]session.Trade, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, seq, symbol, entry_time, exit_time, entry_price, exit_price, quantity, pnl, pnl_pct, exit_reason
		FROM trades
		WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []session.Trade
	for rows.Next() {
		t, err := scanTrade(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SummarizeDay aggregates the trades closed on the calendar day of t,
// in t's location.
func (j *SQLite) SummarizeDay(t time.Time) (DaySummary, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	trades, err := j.ListTradesClosedBetween(day, day.AddDate(0, 0, 1))
	if err != nil {
		return DaySummary{}, err
	}
	return Summarize(day, trades), nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func scanTrade(scan func(...any) error) (session.Trade, error) {
	var t session.Trade
	var reason string
	err := scan(
		&t.ID,
		&t.Seq,
		&t.Symbol,
		&t.EntryTime,
		&t.ExitTime,
		&t.EntryPrice,
		&t.ExitPrice,
		&t.Quantity,
		&t.PnL,
		&t.PnLPct,
		&reason,
	)
	if err != nil {
		return session.Trade{}, err
	}
	t.ExitReason = signal.ExitReason(reason)
	return t, nil
}
