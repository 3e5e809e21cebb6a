// Package market holds the core market data types: candles, option
// instruments and the exchange trading window.
package market

import (
	"errors"
	"time"
)

// Candle represents one OHLC candlestick for a single interval.
// Timestamps are exchange-local (IST for NSE/NFO instruments).
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the candle for internally consistent prices.
func (c Candle) Validate() error {
	if c.Time.IsZero() {
		return errors.New("candle time is zero")
	}
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return errors.New("candle prices must be positive")
	}
	if c.High < c.Low {
		return errors.New("candle high below low")
	}
	if c.Open < c.Low || c.Open > c.High {
		return errors.New("candle open outside high/low range")
	}
	if c.Close < c.Low || c.Close > c.High {
		return errors.New("candle close outside high/low range")
	}
	if c.Volume < 0 {
		return errors.New("candle volume negative")
	}
	return nil
}

// Interval identifies a candle timeframe as the broker API names it.
type Interval string

const (
	Minute  Interval = "minute"
	Minute2 Interval = "2minute"
	Minute5 Interval = "5minute"
)

// Duration returns the bar length for the interval.
func (iv Interval) Duration() time.Duration {
	switch iv {
	case Minute:
		return time.Minute
	case Minute2:
		return 2 * time.Minute
	case Minute5:
		return 5 * time.Minute
	}
	return 0
}

// TrailingWindow returns the last n candles of s whose timestamp is not
// after cutoff. It returns fewer than n candles when the series is short;
// callers decide whether that satisfies their warm-up.
func TrailingWindow(s []Candle, cutoff time.Time, n int) []Candle {
	hi := len(s)
	for hi > 0 && s[hi-1].Time.After(cutoff) {
		hi--
	}
	lo := hi - n
	if lo < 0 {
		lo = 0
	}
	return s[lo:hi]
}
