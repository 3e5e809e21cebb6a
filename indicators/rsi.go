package indicators

import "math"

// rsiSeries returns Wilder's RSI over the given period. The first value
// appears at index period (one seed average over the first period price
// changes, then Wilder smoothing).
func rsiSeries(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// stochRSISeries applies a stochastic oscillator to the RSI series: %K
// over the trailing window of defined RSI values, capped at period. A
// value appears once at least two RSI readings exist; a flat window
// reports 50 (neutral).
func stochRSISeries(rsi []float64, period int) []float64 {
	out := nanSeries(len(rsi))

	first := -1
	for i, v := range rsi {
		if !math.IsNaN(v) {
			first = i
			break
		}
	}
	if first < 0 {
		return out
	}

	for i := first + 1; i < len(rsi); i++ {
		lo := i - period + 1
		if lo < first {
			lo = first
		}
		minV, maxV := rsi[lo], rsi[lo]
		for j := lo + 1; j <= i; j++ {
			if rsi[j] < minV {
				minV = rsi[j]
			}
			if rsi[j] > maxV {
				maxV = rsi[j]
			}
		}
		if maxV == minV {
			out[i] = 50
			continue
		}
		out[i] = (rsi[i] - minV) / (maxV - minV) * 100
	}
	return out
}
