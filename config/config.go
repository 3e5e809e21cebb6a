// Package config loads the trading configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vinayrajsn007/ce-trader/market"
)

// Config is the complete trading configuration.
type Config struct {
	Market   MarketConfig   `json:"market" yaml:"market"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Scanner  ScannerConfig  `json:"scanner" yaml:"scanner"`
	Live     LiveConfig     `json:"live" yaml:"live"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// MarketConfig sets the session window. Times are wall-clock "15:04"
// strings in IST.
type MarketConfig struct {
	Open            string `json:"open" yaml:"open"`
	Close           string `json:"close" yaml:"close"`
	WatchFrom       string `json:"watch_from" yaml:"watch_from"`
	TradeFrom       string `json:"trade_from" yaml:"trade_from"`
	StopBeforeClose int    `json:"stop_before_close_minutes" yaml:"stop_before_close_minutes"`
}

// RiskConfig controls position sizing.
type RiskConfig struct {
	// CapitalFraction is the share of the available balance committed
	// to a trade, e.g. 0.90.
	CapitalFraction float64 `json:"capital_fraction" yaml:"capital_fraction"`
	LotSize         int64   `json:"lot_size" yaml:"lot_size"`
}

// ScannerConfig bounds the contract search.
type ScannerConfig struct {
	MinPremium        float64 `json:"min_premium" yaml:"min_premium"`
	MaxPremium        float64 `json:"max_premium" yaml:"max_premium"`
	TargetPremium     float64 `json:"target_premium" yaml:"target_premium"`
	StrikeStep        float64 `json:"strike_step" yaml:"strike_step"`
	MaxStrikeDistance float64 `json:"max_strike_distance" yaml:"max_strike_distance"`
}

// LiveConfig sets the live polling cadence. Delays are Go duration
// strings, e.g. "10s".
type LiveConfig struct {
	PollInterval      string `json:"poll_interval" yaml:"poll_interval"`
	PrimaryCheckEvery string `json:"primary_check_every" yaml:"primary_check_every"`
	FillWait          string `json:"fill_wait" yaml:"fill_wait"`
}

// BacktestConfig sets replay parameters.
type BacktestConfig struct {
	InitialBalance   float64 `json:"initial_balance" yaml:"initial_balance"`
	PrimaryEveryBars int     `json:"primary_every_bars" yaml:"primary_every_bars"`
}

// JournalConfig selects trade persistence.
type JournalConfig struct {
	Type    string `json:"type" yaml:"type"` // "csv", "sqlite" or "both"
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
}

// Default returns the stock NIFTY CE configuration.
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			Open:            "9:15",
			Close:           "15:30",
			WatchFrom:       "9:25",
			TradeFrom:       "9:30",
			StopBeforeClose: 15,
		},
		Risk: RiskConfig{
			CapitalFraction: 0.90,
			LotSize:         65,
		},
		Scanner: ScannerConfig{
			MinPremium:        70,
			MaxPremium:        130,
			TargetPremium:     100,
			StrikeStep:        50,
			MaxStrikeDistance: 500,
		},
		Live: LiveConfig{
			PollInterval:      "10s",
			PrimaryCheckEvery: "2m",
			FillWait:          "15s",
		},
		Backtest: BacktestConfig{
			InitialBalance:   100_000,
			PrimaryEveryBars: 2,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "trades.db",
		},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := c.Window(); err != nil {
		return err
	}
	if c.Risk.CapitalFraction <= 0 || c.Risk.CapitalFraction > 1 {
		return fmt.Errorf("risk.capital_fraction must be between 0 and 1")
	}
	if c.Risk.LotSize <= 0 {
		return fmt.Errorf("risk.lot_size must be positive")
	}
	if c.Scanner.MinPremium >= c.Scanner.MaxPremium {
		return fmt.Errorf("scanner premium band is empty")
	}
	if c.Scanner.StrikeStep <= 0 {
		return fmt.Errorf("scanner.strike_step must be positive")
	}
	if c.Backtest.InitialBalance <= 0 {
		return fmt.Errorf("backtest.initial_balance must be positive")
	}
	if c.Backtest.PrimaryEveryBars <= 0 {
		return fmt.Errorf("backtest.primary_every_bars must be positive")
	}
	for name, v := range map[string]string{
		"live.poll_interval":       c.Live.PollInterval,
		"live.primary_check_every": c.Live.PrimaryCheckEvery,
		"live.fill_wait":           c.Live.FillWait,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	switch c.Journal.Type {
	case "csv", "sqlite", "both", "":
	default:
		return fmt.Errorf("journal.type must be csv, sqlite or both")
	}
	return nil
}

// Window converts the market section into a session window.
func (c *Config) Window() (market.Window, error) {
	var w market.Window
	var err error
	if w.Open, err = parseClock(c.Market.Open); err != nil {
		return w, fmt.Errorf("market.open: %w", err)
	}
	if w.Close, err = parseClock(c.Market.Close); err != nil {
		return w, fmt.Errorf("market.close: %w", err)
	}
	if w.WatchFrom, err = parseClock(c.Market.WatchFrom); err != nil {
		return w, fmt.Errorf("market.watch_from: %w", err)
	}
	if w.TradeFrom, err = parseClock(c.Market.TradeFrom); err != nil {
		return w, fmt.Errorf("market.trade_from: %w", err)
	}
	if c.Market.StopBeforeClose < 0 {
		return w, fmt.Errorf("market.stop_before_close_minutes must not be negative")
	}
	w.StopBeforeClose = c.Market.StopBeforeClose

	if w.Open >= w.Close {
		return w, fmt.Errorf("market window open %s is not before close %s", c.Market.Open, c.Market.Close)
	}
	return w, nil
}

// PollInterval returns the parsed live poll cadence.
func (c *Config) PollInterval() time.Duration { return mustDuration(c.Live.PollInterval) }

// PrimaryCheckEvery returns the parsed primary-check cadence.
func (c *Config) PrimaryCheckEvery() time.Duration { return mustDuration(c.Live.PrimaryCheckEvery) }

// FillWait returns how long to wait for an order fill before falling
// back to the last traded price.
func (c *Config) FillWait() time.Duration { return mustDuration(c.Live.FillWait) }

// mustDuration is safe after Validate.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// parseClock parses "15:04" or "9:15" into a minute of day.
func parseClock(s string) (market.MinuteOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return market.MinuteOfDay(h*60 + m), nil
}
