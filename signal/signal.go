// Package signal evaluates the double-confirmation entry rule and the
// two-trigger exit rule over computed indicator rows. Evaluators are
// pure: they return verdicts plus a ConditionSet describing every
// sub-condition, and leave logging to the caller.
package signal

import (
	"github.com/vinayrajsn007/ce-trader/indicators"
)

// Entry/exit history requirements, in indicator rows.
const (
	MinEntryRows = 20
	MinExitRows  = 5
)

// Thresholds for the oscillator conditions.
const (
	StochRSIThreshold = 50.0
	RSIMax            = 65.0
)

// ExitReason names which exit trigger fired, or why the position closed.
type ExitReason string

const (
	ExitNone           ExitReason = ""
	ExitEMALowFalling  ExitReason = "ema_low_falling"
	ExitStrongBearish  ExitReason = "strong_bearish"
	ExitMarketClose    ExitReason = "market_close"
	ExitUserStop       ExitReason = "user_stop"
)

// ConditionSet records each sub-condition of an evaluation together
// with the numeric values that produced it, for audit logging. It is
// recomputed on every evaluation and never persisted.
type ConditionSet struct {
	// Entry conditions (the seven-way conjunction).
	SuperTrendBullish bool
	CloseAboveST      bool
	CloseAboveEMALow  bool
	EMABullish        bool
	StochOK           bool
	RSIOK             bool
	MACDOK            bool

	// Exit triggers.
	EMALowFalling bool
	PriceBelowEMA bool
	StrongBearish bool

	// Insufficient marks an evaluation attempted without enough history;
	// no verdict fields are meaningful when set.
	Insufficient bool

	// Values behind the booleans.
	Close        float64
	SuperTrend   float64
	EMAFast      float64
	EMASlow      float64
	EMALow       float64
	StochRSIK    float64
	PrevStochK   float64
	RSI          float64
	PrevRSI      float64
	MACDHist     float64
	PrevMACDHist float64
}

// EvaluateEntry checks the seven-condition entry rule on the latest two
// rows of the series. All conditions must hold; there is no partial
// credit. Fewer than MinEntryRows rows (or an unwarmed tail) reports
// insufficient data, never a false-positive verdict.
func EvaluateEntry(rows []indicators.Row) (bool, ConditionSet) {
	if len(rows) < MinEntryRows {
		return false, ConditionSet{Insufficient: true}
	}
	cur, prev := rows[len(rows)-1], rows[len(rows)-2]
	if !cur.Valid || !prev.Valid {
		return false, ConditionSet{Insufficient: true}
	}

	cs := ConditionSet{
		Close:        cur.Close,
		SuperTrend:   cur.SuperTrend,
		EMAFast:      cur.EMAFast,
		EMASlow:      cur.EMASlow,
		EMALow:       cur.EMALow,
		StochRSIK:    cur.StochRSIK,
		PrevStochK:   prev.StochRSIK,
		RSI:          cur.RSI,
		PrevRSI:      prev.RSI,
		MACDHist:     cur.MACDHist,
		PrevMACDHist: prev.MACDHist,
	}

	cs.SuperTrendBullish = cur.Trend == indicators.Bullish
	cs.CloseAboveST = cur.Close > cur.SuperTrend
	cs.CloseAboveEMALow = cur.Close > cur.EMALow
	cs.EMABullish = cur.EMAFast > cur.EMASlow
	cs.StochOK = cur.StochRSIK < StochRSIThreshold || cur.StochRSIK > prev.StochRSIK
	cs.RSIOK = cur.RSI < RSIMax && cur.RSI > prev.RSI
	cs.MACDOK = cur.MACDHist > 0 || cur.MACDHist > prev.MACDHist

	ok := cs.SuperTrendBullish &&
		cs.CloseAboveST &&
		cs.CloseAboveEMALow &&
		cs.EMABullish &&
		cs.StochOK &&
		cs.RSIOK &&
		cs.MACDOK
	return ok, cs
}

// EvaluateExit checks the two exit triggers on the latest three rows of
// the confirm-timeframe series.
//
// Trigger A (ema_low_falling): EMA low strictly falling across the last
// two steps and close below it. Trigger B (strong_bearish): SuperTrend
// bearish, fast EMA below slow, close below EMA low. Either suffices;
// when both fire Trigger A is reported.
func EvaluateExit(rows []indicators.Row) (bool, ExitReason, ConditionSet) {
	if len(rows) < MinExitRows {
		return false, ExitNone, ConditionSet{Insufficient: true}
	}
	cur := rows[len(rows)-1]
	prev := rows[len(rows)-2]
	prev2 := rows[len(rows)-3]
	if !cur.Valid || !prev.Valid || !prev2.Valid {
		return false, ExitNone, ConditionSet{Insufficient: true}
	}

	cs := ConditionSet{
		Close:      cur.Close,
		SuperTrend: cur.SuperTrend,
		EMAFast:    cur.EMAFast,
		EMASlow:    cur.EMASlow,
		EMALow:     cur.EMALow,
	}

	cs.EMALowFalling = cur.EMALow < prev.EMALow && prev.EMALow < prev2.EMALow
	cs.PriceBelowEMA = cur.Close < cur.EMALow
	cs.StrongBearish = cur.Trend == indicators.Bearish &&
		cur.EMAFast < cur.EMASlow &&
		cur.Close < cur.EMALow

	switch {
	case cs.EMALowFalling && cs.PriceBelowEMA:
		return true, ExitEMALowFalling, cs
	case cs.StrongBearish:
		return true, ExitStrongBearish, cs
	}
	return false, ExitNone, cs
}

// Failed lists the names of entry conditions that did not hold,
// in rule order. Handy for driver-side diagnostics.
func (cs ConditionSet) Failed() []string {
	if cs.Insufficient {
		return []string{"insufficient_data"}
	}
	var out []string
	for _, c := range []struct {
		name string
		ok   bool
	}{
		{"supertrend_bullish", cs.SuperTrendBullish},
		{"close_above_supertrend", cs.CloseAboveST},
		{"close_above_ema_low", cs.CloseAboveEMALow},
		{"ema_fast_above_slow", cs.EMABullish},
		{"stoch_ok", cs.StochOK},
		{"rsi_ok", cs.RSIOK},
		{"macd_ok", cs.MACDOK},
	} {
		if !c.ok {
			out = append(out, c.name)
		}
	}
	return out
}
