// Package indicators computes the technical indicator series the entry
// and exit rules consume. All computations are pure transforms over an
// ordered candle window: recomputing over the same window always yields
// the same rows, which is what keeps backtest replays identical to what
// a live poll would have seen.
package indicators

import (
	"math"

	"github.com/vinayrajsn007/ce-trader/market"
)

// Parameter defaults for the double-confirmation rule set.
const (
	SuperTrendPeriod     = 7
	SuperTrendMultiplier = 3.0
	EMAFastPeriod        = 8
	EMASlowPeriod        = 9
	EMALowPeriod         = 8
	RSIPeriod            = 14
	StochRSIPeriod       = 14
	MACDFastPeriod       = 5
	MACDSlowPeriod       = 13
	MACDSignalPeriod     = 6
)

// MinLookback is the minimum candle history required before any row is
// usable. Below this the engine reports no rows at all.
const MinLookback = 20

// Direction is the SuperTrend trend state.
type Direction int8

const (
	Bullish Direction = +1
	Bearish Direction = -1
)

// Row is one computed indicator row, aligned 1:1 with its source candle.
// Valid is false during warm-up, while any component is still undefined.
type Row struct {
	Time       int64 // unix seconds of the source candle
	Close      float64
	SuperTrend float64
	Trend      Direction
	EMAFast    float64 // EMA(close, 8)
	EMASlow    float64 // EMA(close, 9)
	EMALow     float64 // EMA(low, 8)
	RSI        float64
	StochRSIK  float64
	MACDHist   float64
	Valid      bool
}

// Compute transforms an ordered candle series into aligned indicator
// rows. It returns nil when fewer than MinLookback candles are given:
// "not enough data yet" is a normal state, not an error.
func Compute(candles []market.Candle) []Row {
	if len(candles) < MinLookback {
		return nil
	}

	n := len(candles)
	closes := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		lows[i] = c.Low
	}

	emaFast := emaSeries(closes, EMAFastPeriod)
	emaSlow := emaSeries(closes, EMASlowPeriod)
	emaLow := emaSeries(lows, EMALowPeriod)
	rsi := rsiSeries(closes, RSIPeriod)
	stoch := stochRSISeries(rsi, StochRSIPeriod)
	hist := macdHistSeries(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	st, dir := superTrendSeries(candles, SuperTrendPeriod, SuperTrendMultiplier)

	rows := make([]Row, n)
	for i := range rows {
		r := Row{
			Time:       candles[i].Time.Unix(),
			Close:      closes[i],
			SuperTrend: st[i],
			Trend:      dir[i],
			EMAFast:    emaFast[i],
			EMASlow:    emaSlow[i],
			EMALow:     emaLow[i],
			RSI:        rsi[i],
			StochRSIK:  stoch[i],
			MACDHist:   hist[i],
		}
		r.Valid = dir[i] != 0 &&
			!anyNaN(r.SuperTrend, r.EMAFast, r.EMASlow, r.EMALow, r.RSI, r.StochRSIK, r.MACDHist)
		rows[i] = r
	}
	return rows
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
