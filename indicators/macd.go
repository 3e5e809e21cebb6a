package indicators

import "math"

// macdHistSeries returns the MACD histogram: MACD line (fast EMA minus
// slow EMA of close) minus its signal EMA. The signal EMA is seeded by
// a simple average of the first signalPeriod defined MACD values.
func macdHistSeries(closes []float64, fast, slow, signalPeriod int) []float64 {
	out := nanSeries(len(closes))
	if len(closes) < slow {
		return out
	}

	fastEMA := emaSeries(closes, fast)
	slowEMA := emaSeries(closes, slow)

	macd := nanSeries(len(closes))
	for i := range closes {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			macd[i] = fastEMA[i] - slowEMA[i]
		}
	}

	// The MACD line starts where the slow EMA starts; run the signal
	// EMA over that defined suffix.
	start := slow - 1
	signal := emaSeries(macd[start:], signalPeriod)
	for i := start; i < len(closes); i++ {
		s := signal[i-start]
		if !math.IsNaN(s) {
			out[i] = macd[i] - s
		}
	}
	return out
}
