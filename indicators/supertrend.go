package indicators

import (
	"math"

	"github.com/vinayrajsn007/ce-trader/market"
)

// atrSeries returns the Average True Range over period using Wilder
// smoothing, seeded by a simple average of the first period true ranges.
// The first value appears at index period (TR needs a previous candle).
func atrSeries(candles []market.Candle, period int) []float64 {
	out := nanSeries(len(candles))
	if period <= 0 || len(candles) < period+1 {
		return out
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += trueRange(candles[i], candles[i-1])
	}
	atr := sum / float64(period)
	out[period] = atr

	for i := period + 1; i < len(candles); i++ {
		atr = (atr*float64(period-1) + trueRange(candles[i], candles[i-1])) / float64(period)
		out[i] = atr
	}
	return out
}

func trueRange(current, previous market.Candle) float64 {
	hl := current.High - current.Low
	hc := math.Abs(current.High - previous.Close)
	lc := math.Abs(current.Low - previous.Close)
	return math.Max(hl, math.Max(hc, lc))
}

// superTrendSeries computes the SuperTrend value and trend direction.
//
// Bands are "sticky": while the trend is bullish the lower band may only
// rise, while bearish the upper band may only fall. The direction flips
// when close crosses the active band, and the opposite band becomes the
// new SuperTrend value.
func superTrendSeries(candles []market.Candle, period int, multiplier float64) ([]float64, []Direction) {
	n := len(candles)
	st := nanSeries(n)
	dir := make([]Direction, n)

	atr := atrSeries(candles, period)
	if n < period+1 {
		return st, dir
	}

	upper := nanSeries(n)
	lower := nanSeries(n)

	for i := period; i < n; i++ {
		mid := (candles[i].High + candles[i].Low) / 2
		basicUpper := mid + multiplier*atr[i]
		basicLower := mid - multiplier*atr[i]

		if i == period {
			upper[i] = basicUpper
			lower[i] = basicLower
			if candles[i].Close > basicUpper {
				dir[i] = Bullish
				st[i] = lower[i]
			} else {
				dir[i] = Bearish
				st[i] = upper[i]
			}
			continue
		}

		prevClose := candles[i-1].Close

		upper[i] = basicUpper
		if basicUpper > upper[i-1] && prevClose <= upper[i-1] {
			upper[i] = upper[i-1]
		}
		lower[i] = basicLower
		if basicLower < lower[i-1] && prevClose >= lower[i-1] {
			lower[i] = lower[i-1]
		}

		switch dir[i-1] {
		case Bearish:
			if candles[i].Close > upper[i] {
				dir[i] = Bullish
			} else {
				dir[i] = Bearish
			}
		case Bullish:
			if candles[i].Close < lower[i] {
				dir[i] = Bearish
			} else {
				dir[i] = Bullish
			}
		}

		if dir[i] == Bullish {
			st[i] = lower[i]
		} else {
			st[i] = upper[i]
		}
	}

	return st, dir
}
