// Package risk converts available capital into tradable option
// quantities. Options trade in whole lots, so sizing floors to the
// largest affordable lot count.
package risk

import "math"

// Quantity returns how many units to buy given the deployable capital,
// the option premium per unit and the contract lot size:
//
//	lots = floor(capital / (premium * lotSize))
//	quantity = lots * lotSize
//
// A zero return means "cannot enter now" (premium not positive, or
// capital short of a single lot); callers must skip the cycle, not fail.
func Quantity(capital, premium float64, lotSize int64) int64 {
	if premium <= 0 || lotSize <= 0 {
		return 0
	}
	costPerLot := premium * float64(lotSize)
	if capital < costPerLot {
		return 0
	}
	lots := int64(math.Floor(capital / costPerLot))
	return lots * lotSize
}

// TradingCapital applies the configured risk fraction to the available
// account balance.
func TradingCapital(balance, fraction float64) float64 {
	if fraction <= 0 || fraction > 1 {
		return 0
	}
	return balance * fraction
}
