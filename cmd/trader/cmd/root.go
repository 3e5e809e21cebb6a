package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vinayrajsn007/ce-trader/config"
)

var rootCmd = &cobra.Command{
	Use:   "trader",
	Short: "An intraday NIFTY call-option trading engine",
	Long: `Trader runs a double-confirmation intraday strategy on NIFTY call
options through the Zerodha Kite API.

It provides tools for:
  - Live polling and order placement during market hours
  - Deterministic backtests over recorded candle data
  - Contract selection from the NFO option chain
  - Trade journaling to SQLite and CSV`,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
}

// loadConfig returns the file-backed configuration, or the defaults
// when no file was given.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}
