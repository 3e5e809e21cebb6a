package scanner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayrajsn007/ce-trader/market"
)

func ce(strike, premium float64) market.Instrument {
	return market.Instrument{
		Symbol:     fmt.Sprintf("NIFTY26MAR%.0fCE", strike),
		Exchange:   "NFO",
		Strike:     strike,
		Premium:    premium,
		LotSize:    65,
		OptionType: "CE",
	}
}

func TestPick(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	tests := []struct {
		name       string
		spot       float64
		chain      []market.Instrument
		wantStrike float64
		wantErr    error
	}{
		{
			name:       "atm preferred over neighbours",
			spot:       24510,
			chain:      []market.Instrument{ce(24450, 110), ce(24500, 95), ce(24550, 80)},
			wantStrike: 24500,
		},
		{
			name:       "nearest otm when atm premium out of band",
			spot:       24510,
			chain:      []market.Instrument{ce(24500, 150), ce(24550, 80), ce(24600, 72)},
			wantStrike: 24550,
		},
		{
			name:       "nearest itm when nothing else qualifies",
			spot:       24510,
			chain:      []market.Instrument{ce(24400, 128), ce(24450, 110)},
			wantStrike: 24450,
		},
		{
			name:    "premium band filters everything",
			spot:    24510,
			chain:   []market.Instrument{ce(24500, 150), ce(24550, 60)},
			wantErr: ErrNoCandidate,
		},
		{
			name:    "distant strikes excluded",
			spot:    24510,
			chain:   []market.Instrument{ce(26000, 75)},
			wantErr: ErrNoCandidate,
		},
		{
			name: "puts ignored",
			spot: 24510,
			chain: []market.Instrument{
				{Symbol: "NIFTY26MAR24500PE", Exchange: "NFO", Strike: 24500, Premium: 95, OptionType: "PE"},
			},
			wantErr: ErrNoCandidate,
		},
		{
			name: "tie-break prefers premium nearest target",
			spot: 24510,
			chain: []market.Instrument{
				ce(24500, 85),
				ce(24500, 105),
			},
			wantStrike: 24500,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Pick(cfg, tt.spot, tt.chain)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStrike, got.Strike)
		})
	}

	t.Run("tie-break picks the 105 premium", func(t *testing.T) {
		t.Parallel()

		got, err := Pick(cfg, 24510, []market.Instrument{ce(24500, 85), ce(24500, 105)})
		require.NoError(t, err)
		assert.Equal(t, 105.0, got.Premium)
	})

	t.Run("invalid spot", func(t *testing.T) {
		t.Parallel()

		_, err := Pick(cfg, 0, []market.Instrument{ce(24500, 95)})
		require.Error(t, err)
	})
}

type fakeChain struct {
	instruments []market.Instrument
	err         error
}

func (f *fakeChain) OptionChain(_ context.Context, _ time.Time) ([]market.Instrument, error) {
	return f.instruments, f.err
}

type fakeQuotes struct {
	prices map[string]float64
}

func (f *fakeQuotes) LTP(_ context.Context, exchange, symbol string) (float64, error) {
	p, ok := f.prices[exchange+":"+symbol]
	if !ok {
		return 0, errors.New("no quote")
	}
	return p, nil
}

func TestSelectorQuotesAndPicks(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{instruments: []market.Instrument{
		ce(24450, 0),
		ce(24500, 0),
		ce(24550, 0),
		ce(26000, 0), // outside the strike bound, never quoted
	}}
	quotes := &fakeQuotes{prices: map[string]float64{
		"NSE:NIFTY 50":          24510,
		"NFO:NIFTY26MAR24500CE": 95,
		"NFO:NIFTY26MAR24550CE": 80,
		// 24450 has no quote and drops out
	}}

	sel := NewSelector(DefaultConfig(), chain, quotes)
	got, err := sel.Select(context.Background(), time.Date(2026, time.March, 26, 0, 0, 0, 0, market.IST))
	require.NoError(t, err)
	assert.Equal(t, 24500.0, got.Strike)
	assert.Equal(t, 95.0, got.Premium)
}

func TestSelectorSpotQuoteFailure(t *testing.T) {
	t.Parallel()

	sel := NewSelector(DefaultConfig(), &fakeChain{}, &fakeQuotes{prices: map[string]float64{}})
	_, err := sel.Select(context.Background(), time.Time{})
	require.Error(t, err)
}
