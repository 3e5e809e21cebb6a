package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinayrajsn007/ce-trader/config"
	"github.com/vinayrajsn007/ce-trader/journal"
	"github.com/vinayrajsn007/ce-trader/market"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Summarize journaled trades for a day",
	Long: `Journal prints the trades closed on a given day along with the
daily totals, read from the SQLite journal.

Example:
  trader journal --date 2026-03-05`,
	RunE: runJournal,
}

var journalDate string

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVar(&journalDate, "date", "", "day to summarize, YYYY-MM-DD (default today)")
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	day := time.Now().In(market.IST)
	if journalDate != "" {
		day, err = time.ParseInLocation("2006-01-02", journalDate, market.IST)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
	}

	dbPath := cfg.Journal.DBPath
	if dbPath == "" {
		dbPath = "trades.db"
	}
	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, market.IST)
	trades, err := j.ListTradesClosedBetween(midnight, midnight.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	if len(trades) == 0 {
		fmt.Fprintf(os.Stdout, "No trades on %s\n", midnight.Format("2006-01-02"))
		return nil
	}

	for _, t := range trades {
		fmt.Fprintf(os.Stdout, "#%d %s  %s @ %.2f -> %s @ %.2f  qty %d  pnl %.2f (%.2f%%)  exit %s\n",
			t.Seq, t.Symbol,
			t.EntryTime.In(market.IST).Format("15:04"), t.EntryPrice,
			t.ExitTime.In(market.IST).Format("15:04"), t.ExitPrice,
			t.Quantity, t.PnL, t.PnLPct, t.ExitReason)
	}

	sum := journal.Summarize(midnight, trades)
	fmt.Fprintf(os.Stdout, "\n%d trades, %d wins / %d losses, total pnl %.2f\n",
		sum.Trades, sum.Wins, sum.Losses, sum.TotalPnL)
	for reason, n := range sum.ByReason {
		fmt.Fprintf(os.Stdout, "  %-18s %d\n", reason, n)
	}
	return nil
}

// openJournal builds the configured trade journal.
func openJournal(cfg *config.Config) (journal.Journal, error) {
	dbPath := cfg.Journal.DBPath
	if dbPath == "" {
		dbPath = "trades.db"
	}
	csvPath := cfg.Journal.CSVPath
	if csvPath == "" {
		csvPath = "trades.csv"
	}

	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(csvPath)
	case "both":
		sq, err := journal.NewSQLite(dbPath)
		if err != nil {
			return nil, err
		}
		cs, err := journal.NewCSV(csvPath)
		if err != nil {
			sq.Close()
			return nil, err
		}
		return journal.Multi{sq, cs}, nil
	default: // "sqlite" or unset
		return journal.NewSQLite(dbPath)
	}
}
