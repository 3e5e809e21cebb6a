// Package scanner picks the call option contract to trade for a
// session: the strike nearest the index spot whose premium sits inside
// the affordable band.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vinayrajsn007/ce-trader/market"
)

// ErrNoCandidate means no contract in the chain passed the filters.
var ErrNoCandidate = errors.New("scanner: no candidate contract")

// Config bounds the contract search.
type Config struct {
	MinPremium    float64 // lowest acceptable premium
	MaxPremium    float64 // highest acceptable premium
	TargetPremium float64 // tie-break: prefer premium nearest this

	StrikeStep        float64 // strike grid spacing, 50 for NIFTY
	MaxStrikeDistance float64 // ignore strikes further than this from spot
}

// DefaultConfig targets NIFTY weekly calls priced roughly a hundred
// rupees a share.
func DefaultConfig() Config {
	return Config{
		MinPremium:        70,
		MaxPremium:        130,
		TargetPremium:     100,
		StrikeStep:        50,
		MaxStrikeDistance: 500,
	}
}

// strike preference classes, in pick order.
const (
	classATM = iota
	classOTM
	classITM
)

// Pick selects one call contract from the chain given the index spot.
// Preference runs at-the-money first, then the nearest out-of-the-money
// strike, then the nearest in-the-money one; among equally distant
// strikes the premium closest to the target wins. Candidates must be
// calls, lie within the strike distance bound, and carry a premium
// inside the configured band.
func Pick(cfg Config, spot float64, chain []market.Instrument) (market.Instrument, error) {
	if spot <= 0 {
		return market.Instrument{}, fmt.Errorf("scanner: invalid spot %.2f", spot)
	}

	atmStrike := math.Round(spot/cfg.StrikeStep) * cfg.StrikeStep

	type candidate struct {
		inst  market.Instrument
		class int
		dist  float64
	}
	var candidates []candidate
	for _, inst := range chain {
		if inst.OptionType != "CE" {
			continue
		}
		if inst.Premium < cfg.MinPremium || inst.Premium > cfg.MaxPremium {
			continue
		}
		dist := math.Abs(inst.Strike - spot)
		if cfg.MaxStrikeDistance > 0 && dist > cfg.MaxStrikeDistance {
			continue
		}
		class := classATM
		switch {
		case inst.Strike == atmStrike:
			class = classATM
		case inst.Strike > spot:
			class = classOTM
		default:
			class = classITM
		}
		candidates = append(candidates, candidate{inst: inst, class: class, dist: dist})
	}
	if len(candidates) == 0 {
		return market.Instrument{}, ErrNoCandidate
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.class != b.class {
			return a.class < b.class
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		da := math.Abs(a.inst.Premium - cfg.TargetPremium)
		db := math.Abs(b.inst.Premium - cfg.TargetPremium)
		return da < db
	})
	return candidates[0].inst, nil
}

// ChainSource lists the tradable call contracts for an expiry. Premiums
// on the returned instruments may be unset; the selector quotes them.
type ChainSource interface {
	OptionChain(ctx context.Context, expiry time.Time) ([]market.Instrument, error)
}

// SpotQuoter returns the last traded price of an instrument.
type SpotQuoter interface {
	LTP(ctx context.Context, exchange, symbol string) (float64, error)
}

// Selector quotes an option chain and picks the contract to trade.
type Selector struct {
	cfg    Config
	chain  ChainSource
	quotes SpotQuoter

	spotExchange string
	spotSymbol   string
}

// NewSelector builds a selector that reads the index spot from the
// given quote symbol, NSE "NIFTY 50" by default.
func NewSelector(cfg Config, chain ChainSource, quotes SpotQuoter) *Selector {
	return &Selector{
		cfg:          cfg,
		chain:        chain,
		quotes:       quotes,
		spotExchange: "NSE",
		spotSymbol:   "NIFTY 50",
	}
}

// Select resolves the spot, quotes the near-spot slice of the chain and
// picks one contract.
func (s *Selector) Select(ctx context.Context, expiry time.Time) (market.Instrument, error) {
	spot, err := s.quotes.LTP(ctx, s.spotExchange, s.spotSymbol)
	if err != nil {
		return market.Instrument{}, fmt.Errorf("scanner: spot quote: %w", err)
	}

	chain, err := s.chain.OptionChain(ctx, expiry)
	if err != nil {
		return market.Instrument{}, fmt.Errorf("scanner: option chain: %w", err)
	}

	// Quote only strikes within the search bound; full-chain quoting
	// would hammer the broker for contracts that can never win.
	quoted := make([]market.Instrument, 0, len(chain))
	for _, inst := range chain {
		if inst.OptionType != "CE" {
			continue
		}
		if s.cfg.MaxStrikeDistance > 0 && math.Abs(inst.Strike-spot) > s.cfg.MaxStrikeDistance {
			continue
		}
		if inst.Premium == 0 {
			premium, err := s.quotes.LTP(ctx, inst.Exchange, inst.Symbol)
			if err != nil {
				continue // unquotable contracts just drop out
			}
			inst.Premium = premium
		}
		quoted = append(quoted, inst)
	}
	return Pick(s.cfg, spot, quoted)
}
