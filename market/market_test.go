package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandle() Candle {
	return Candle{
		Time:   time.Date(2026, time.March, 5, 10, 0, 0, 0, IST),
		Open:   100,
		High:   102,
		Low:    99,
		Close:  101,
		Volume: 500,
	}
}

func TestCandleValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validCandle().Validate())

	tests := []struct {
		name   string
		mutate func(*Candle)
	}{
		{"zero time", func(c *Candle) { c.Time = time.Time{} }},
		{"negative price", func(c *Candle) { c.Close = -1 }},
		{"high below low", func(c *Candle) { c.High, c.Low = 99, 102 }},
		{"open above high", func(c *Candle) { c.Open = 103 }},
		{"close below low", func(c *Candle) { c.Close = 98 }},
		{"negative volume", func(c *Candle) { c.Volume = -1 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := validCandle()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestIntervalDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Minute, Minute.Duration())
	assert.Equal(t, 2*time.Minute, Minute2.Duration())
	assert.Equal(t, 5*time.Minute, Minute5.Duration())
	assert.Equal(t, time.Duration(0), Interval("1hour").Duration())
}

func TestTrailingWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.March, 5, 10, 0, 0, 0, IST)
	series := make([]Candle, 30)
	for i := range series {
		series[i] = Candle{Time: start.Add(time.Duration(i) * 2 * time.Minute), Close: float64(i)}
	}

	t.Run("caps at n", func(t *testing.T) {
		got := TrailingWindow(series, series[29].Time, 20)
		require.Len(t, got, 20)
		assert.Equal(t, 10.0, got[0].Close)
		assert.Equal(t, 29.0, got[19].Close)
	})

	t.Run("cutoff excludes later candles", func(t *testing.T) {
		got := TrailingWindow(series, series[14].Time, 20)
		require.Len(t, got, 15)
		assert.Equal(t, 14.0, got[14].Close)
	})

	t.Run("cutoff between bars keeps the earlier one", func(t *testing.T) {
		got := TrailingWindow(series, series[14].Time.Add(time.Minute), 20)
		assert.Equal(t, 14.0, got[len(got)-1].Close)
	})

	t.Run("short series returned whole", func(t *testing.T) {
		got := TrailingWindow(series[:5], series[29].Time, 20)
		assert.Len(t, got, 5)
	})

	t.Run("cutoff before series is empty", func(t *testing.T) {
		got := TrailingWindow(series, start.Add(-time.Hour), 20)
		assert.Empty(t, got)
	})
}

func TestWindowGates(t *testing.T) {
	t.Parallel()

	w := DefaultWindow()
	at := func(h, m int) time.Time {
		return time.Date(2026, time.March, 5, h, m, 0, 0, IST)
	}

	assert.False(t, w.IsOpen(at(9, 14)))
	assert.True(t, w.IsOpen(at(9, 15)))
	assert.True(t, w.IsOpen(at(15, 30)))
	assert.False(t, w.IsOpen(at(15, 31)))

	assert.False(t, w.IsWatchOnly(at(9, 24)))
	assert.True(t, w.IsWatchOnly(at(9, 25)))
	assert.True(t, w.IsWatchOnly(at(9, 29)))
	assert.False(t, w.IsWatchOnly(at(9, 30)))

	assert.True(t, w.IsPreTrade(at(9, 29)))
	assert.False(t, w.IsPreTrade(at(9, 30)))

	assert.Equal(t, 30, w.MinutesToClose(at(15, 0)))
	assert.Equal(t, 0, w.MinutesToClose(at(16, 0)))

	// The cutoff is strictly inside the final 15 minutes: 15:15 can
	// still open, 15:16 cannot.
	assert.False(t, w.StopNewTrades(at(15, 15)))
	assert.True(t, w.StopNewTrades(at(15, 16)))

	assert.False(t, w.CanEnter(at(9, 29)))
	assert.True(t, w.CanEnter(at(9, 30)))
	assert.True(t, w.CanEnter(at(15, 15)))
	assert.False(t, w.CanEnter(at(15, 16)))
	assert.False(t, w.CanEnter(at(16, 0)))
}

func TestMinuteOfDayAt(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 5, 23, 59, 59, 0, IST)
	got := MinuteOfDay(9*60 + 15).At(base)
	assert.Equal(t, time.Date(2026, time.March, 5, 9, 15, 0, 0, IST), got)
}

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, time.March, 26, 0, 0, 0, 0, IST)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"Mar 26", want},
		{"March 26", want},
		{"26 Mar", want},
		{"26 March 2026", want},
		{"Mar 26 2026", want},
		{"2026-03-26", want},
		{"26-03-2026", want},
		{"26/03/2026", want},
		{" Mar 26 ", want},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseExpiry(tt.in, 2026)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s", got)
		})
	}

	for _, bad := range []string{"", "someday", "32 Mar", "13/13/2026"} {
		_, err := ParseExpiry(bad, 2026)
		assert.Error(t, err, bad)
	}
}

func TestInstrumentCostPerLot(t *testing.T) {
	t.Parallel()

	inst := Instrument{Premium: 100, LotSize: 65}
	assert.Equal(t, 6500.0, inst.CostPerLot())
}
