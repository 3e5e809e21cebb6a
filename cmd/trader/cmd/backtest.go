package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinayrajsn007/ce-trader/backtest"
	"github.com/vinayrajsn007/ce-trader/market"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a session of recorded candles",
	Long: `Backtest replays recorded 2-minute and 5-minute candle CSVs
through the live entry and exit rules and prints the session metrics.

Candle CSVs carry a header and rows of
time,open,high,low,close,volume with RFC 3339 timestamps.

Example:
  trader backtest --confirm ce_2min.csv --primary ce_5min.csv`,
	RunE: runBacktestCmd,
}

var (
	btConfirmPath string
	btPrimaryPath string
	btSymbol      string
	btJournal     bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&btConfirmPath, "confirm", "", "path to 2-minute candle CSV (required)")
	backtestCmd.Flags().StringVar(&btPrimaryPath, "primary", "", "path to 5-minute candle CSV (required)")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "NIFTYCE", "symbol recorded on replayed trades")
	backtestCmd.Flags().BoolVar(&btJournal, "journal", false, "record replayed trades to the configured journal")

	backtestCmd.MarkFlagRequired("confirm")
	backtestCmd.MarkFlagRequired("primary")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	window, err := cfg.Window()
	if err != nil {
		return err
	}

	confirm, err := loadCandlesCSV(btConfirmPath)
	if err != nil {
		return fmt.Errorf("load confirm candles: %w", err)
	}
	primary, err := loadCandlesCSV(btPrimaryPath)
	if err != nil {
		return fmt.Errorf("load primary candles: %w", err)
	}

	engine := backtest.NewEngine(backtest.Config{
		Symbol:           btSymbol,
		LotSize:          cfg.Risk.LotSize,
		InitialBalance:   cfg.Backtest.InitialBalance,
		PrimaryEveryBars: cfg.Backtest.PrimaryEveryBars,
		Window:           window,
	}, confirm, primary)

	res, err := engine.Run()
	if err != nil {
		return err
	}
	res.Report(os.Stdout)

	if btJournal && len(res.Trades) > 0 {
		jnl, err := openJournal(cfg)
		if err != nil {
			return err
		}
		defer jnl.Close()
		for _, trade := range res.Trades {
			if err := jnl.RecordTrade(trade); err != nil {
				return fmt.Errorf("journal trade %s: %w", trade.ID, err)
			}
		}
	}
	return nil
}

// loadCandlesCSV reads a time,open,high,low,close,volume CSV. The time
// column accepts RFC 3339 or "2006-01-02 15:04:05" in IST.
func loadCandlesCSV(path string) ([]market.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil { // header
		return nil, fmt.Errorf("read header: %w", err)
	}

	var candles []market.Candle
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("line %d: %d fields, want 6", line, len(rec))
		}

		ts, err := parseCandleTime(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			vals[i], err = strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d field %d: %w", line, i+2, err)
			}
		}

		candle := market.Candle{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		}
		if err := candle.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseCandleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, market.IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
