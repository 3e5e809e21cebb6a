package market

import "time"

// Instrument describes a tradable option contract as selected by the
// scanner. The trading engine treats it as opaque: it only needs the
// token for data fetches, the symbol for orders and the premium/lot
// size for position sizing.
type Instrument struct {
	Token      int64     // broker instrument token for historical data
	Symbol     string    // trading symbol, e.g. NIFTY26123 25100 CE
	Exchange   string    // NFO for index options
	Strike     float64
	Expiry     time.Time
	Premium    float64 // last traded price at selection time
	LotSize    int64
	OptionType string // CE or PE
}

// CostPerLot is the capital required to buy one lot at the current premium.
func (in Instrument) CostPerLot() float64 {
	return in.Premium * float64(in.LotSize)
}
