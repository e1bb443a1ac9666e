// Package fees implements position, swap, UI, and execution fee math, and
// aggregates them into per-trade fee breakdowns. All amounts are USD-scaled
// big integers; negative DeltaUsd values are costs to the user.
package fees

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
)

// FeeItem is a signed fee with its size relative to a basis amount. The
// basis is the economically relevant denominator for that fee (trade size
// for position fees, collateral USD for swap fees), not a global one.
type FeeItem struct {
	DeltaUsd *big.Int
	Bps      *big.Int
}

// NewFeeItem builds a FeeItem from a signed USD delta and its basis.
// A nil or zero basis yields zero bps.
func NewFeeItem(deltaUsd, basisUsd *big.Int) FeeItem {
	if deltaUsd == nil {
		deltaUsd = new(big.Int)
	}
	return FeeItem{
		DeltaUsd: new(big.Int).Set(deltaUsd),
		Bps:      fixedpoint.BasisPoints(deltaUsd, basisUsd),
	}
}

// GetTotalFeeItem sums fee items. Summation is commutative and associative,
// so aggregation order never affects the result.
func GetTotalFeeItem(items ...FeeItem) FeeItem {
	total := FeeItem{
		DeltaUsd: new(big.Int),
		Bps:      new(big.Int),
	}
	for _, item := range items {
		if item.DeltaUsd != nil {
			total.DeltaUsd.Add(total.DeltaUsd, item.DeltaUsd)
		}
		if item.Bps != nil {
			total.Bps.Add(total.Bps, item.Bps)
		}
	}
	return total
}
