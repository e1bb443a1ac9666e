// Package impact implements pool price-impact math: imbalance-based impact
// for swaps and positions, impact-pool capping, capped trader pnl, and the
// acceptable-price derivations used for order entry.
//
// Every function is a pure, single-shot computation over the snapshot passed
// in by the caller; there is no state held between calls.
package impact

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
)

var usdUnit = fixedpoint.Exp10(fixedpoint.USDDecimals)

// applyImpactFactor applies a Precision-scaled impact factor to a USD
// imbalance raised to a whole exponent, keeping the result USD-scaled.
func applyImpactFactor(diffUsd, factor *big.Int, exponent int) *big.Int {
	if exponent < 1 {
		exponent = 1
	}
	value := new(big.Int).Set(diffUsd)
	for i := 1; i < exponent; i++ {
		value.Mul(value, diffUsd)
		value.Quo(value, usdUnit)
	}
	return fixedpoint.ApplyFactor(value, factor)
}

// priceImpactForImbalance computes the signed impact of moving a balanced
// pair of USD sides from (currentLong, currentShort) to (nextLong,
// nextShort). A shrinking imbalance earns positive impact under
// positiveFactor; a growing one is charged under negativeFactor. Crossing
// the balance point charges both sides of the move.
func priceImpactForImbalance(currentLong, currentShort, nextLong, nextShort, positiveFactor, negativeFactor *big.Int, exponent int) *big.Int {
	currentDiff := new(big.Int).Sub(currentLong, currentShort)
	currentDiff.Abs(currentDiff)
	nextDiff := new(big.Int).Sub(nextLong, nextShort)
	nextDiff.Abs(nextDiff)

	longsExceedShorts := currentLong.Cmp(currentShort) > 0
	nextLongsExceedShorts := nextLong.Cmp(nextShort) > 0

	if longsExceedShorts == nextLongsExceedShorts {
		hasPositiveImpact := nextDiff.Cmp(currentDiff) < 0
		factor := negativeFactor
		if hasPositiveImpact {
			factor = positiveFactor
		}
		impact := applyImpactFactor(currentDiff, factor, exponent)
		return impact.Sub(impact, applyImpactFactor(nextDiff, factor, exponent))
	}

	positiveImpactUsd := applyImpactFactor(currentDiff, positiveFactor, exponent)
	negativeImpactUsd := applyImpactFactor(nextDiff, negativeFactor, exponent)
	return positiveImpactUsd.Sub(positiveImpactUsd, negativeImpactUsd)
}
