package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vinayrajsn007/ce-trader/broker/kite"
	"github.com/vinayrajsn007/ce-trader/live"
	"github.com/vinayrajsn007/ce-trader/market"
	"github.com/vinayrajsn007/ce-trader/scanner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Trade live through the Kite API for one session",
	Long: `Run polls the market during trading hours, looking for a
double-confirmed entry on the selected call option, and manages the
position until an exit trigger or market close.

Credentials are read from KITE_API_KEY and KITE_ACCESS_TOKEN, with a
.env file honoured when present. Ctrl-C exits cleanly, squaring off any
open position first.

Example:
  trader run --expiry "Mar 26"`,
	RunE: runLive,
}

var (
	runExpiry string
	runEnv    string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runExpiry, "expiry", "e", "", "option expiry date, e.g. \"Mar 26\" or \"2026-03-26\" (required)")
	runCmd.Flags().StringVar(&runEnv, "env", ".env", "path to env file with Kite credentials")

	runCmd.MarkFlagRequired("expiry")
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Missing .env is fine when the variables are already exported.
	if err := godotenv.Load(runEnv); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load env file: %w", err)
	}
	apiKey := os.Getenv("KITE_API_KEY")
	accessToken := os.Getenv("KITE_ACCESS_TOKEN")
	if apiKey == "" || accessToken == "" {
		return fmt.Errorf("KITE_API_KEY and KITE_ACCESS_TOKEN must be set")
	}

	expiry, err := market.ParseExpiry(runExpiry, time.Now().In(market.IST).Year())
	if err != nil {
		return err
	}

	window, err := cfg.Window()
	if err != nil {
		return err
	}

	client := kite.NewClient(apiKey, accessToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sel := scanner.NewSelector(scanner.Config{
		MinPremium:        cfg.Scanner.MinPremium,
		MaxPremium:        cfg.Scanner.MaxPremium,
		TargetPremium:     cfg.Scanner.TargetPremium,
		StrikeStep:        cfg.Scanner.StrikeStep,
		MaxStrikeDistance: cfg.Scanner.MaxStrikeDistance,
	}, client, client)

	inst, err := sel.Select(ctx, expiry)
	if err != nil {
		return fmt.Errorf("select contract: %w", err)
	}
	log.Printf("trading %s (strike %.0f, premium %.2f, lot %d)",
		inst.Symbol, inst.Strike, inst.Premium, inst.LotSize)

	jnl, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer jnl.Close()

	driver := live.NewDriver(live.Config{
		Instrument:        inst,
		Window:            window,
		PollInterval:      cfg.PollInterval(),
		PrimaryCheckEvery: cfg.PrimaryCheckEvery(),
		FillWait:          cfg.FillWait(),
		CapitalFraction:   cfg.Risk.CapitalFraction,
		ConfirmInterval:   market.Minute2,
		PrimaryInterval:   market.Minute5,
	}, live.Deps{
		Candles: client,
		Quotes:  client,
		Capital: client,
		Orders:  client,
		Journal: jnl,
	})

	if err := driver.Run(ctx); err != nil {
		return err
	}

	sess := driver.Session()
	log.Printf("session done: %d trades, total pnl %.2f", len(sess.Trades()), sess.TotalPnL())
	return nil
}
