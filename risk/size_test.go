package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		capital float64
		premium float64
		lotSize int64
		want    int64
	}{
		// floor(100000 / (100*65)) = 15 lots -> 975 units
		{"nifty lot arithmetic", 100_000, 100, 65, 975},
		{"exactly one lot", 6_500, 100, 65, 65},
		{"one rupee short of a lot", 6_499, 100, 65, 0},
		{"zero premium", 100_000, 0, 65, 0},
		{"negative premium", 100_000, -5, 65, 0},
		{"zero capital", 0, 100, 65, 0},
		{"zero lot size", 100_000, 100, 0, 0},
		{"partial lot rounds down", 13_000, 95, 65, 130},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Quantity(tt.capital, tt.premium, tt.lotSize))
		})
	}
}

func TestTradingCapital(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 90_000.0, TradingCapital(100_000, 0.9), 1e-9)
	assert.Zero(t, TradingCapital(100_000, 0))
	assert.Zero(t, TradingCapital(100_000, 1.5))
}
