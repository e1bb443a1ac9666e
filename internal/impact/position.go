package impact

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
	"tradeRouter/internal/pricing"
)

// PriceImpactForPosition computes the signed USD price impact of changing a
// position by sizeDeltaUsd (negative for decreases) on the open-interest
// imbalance of the pool.
func PriceImpactForPosition(pool *model.Pool, sizeDeltaUsd *big.Int, isLong bool) *big.Int {
	if sizeDeltaUsd == nil || sizeDeltaUsd.Sign() == 0 {
		return new(big.Int)
	}

	longInterest := zeroIfNil(pool.LongInterestUsd)
	shortInterest := zeroIfNil(pool.ShortInterestUsd)

	nextLong := new(big.Int).Set(longInterest)
	nextShort := new(big.Int).Set(shortInterest)
	if isLong {
		nextLong.Add(nextLong, sizeDeltaUsd)
	} else {
		nextShort.Add(nextShort, sizeDeltaUsd)
	}
	if nextLong.Sign() < 0 {
		nextLong.SetInt64(0)
	}
	if nextShort.Sign() < 0 {
		nextShort.SetInt64(0)
	}

	return priceImpactForImbalance(
		longInterest, shortInterest,
		nextLong, nextShort,
		pool.PositionImpactFactorPositive, pool.PositionImpactFactorNegative,
		pool.PositionImpactExponent,
	)
}

// CappedPositionImpactUsd caps positive position impact by both the impact
// pool reserve (valued at the index min price) and the pool's max positive
// impact factor over the trade size. Negative impact passes through.
func CappedPositionImpactUsd(pool *model.Pool, snapshot *model.Snapshot, sizeDeltaUsd *big.Int, isLong bool) *big.Int {
	impactUsd := PriceImpactForPosition(pool, sizeDeltaUsd, isLong)
	if impactUsd.Sign() <= 0 {
		return impactUsd
	}

	indexToken, okToken := snapshot.TokenByAddress(pool.IndexToken)
	indexPrice, okPrice := snapshot.PriceByToken(pool.IndexToken)
	if okToken && okPrice {
		maxFromPool := pricing.TokenAmountToUsd(zeroIfNil(pool.PositionImpactPoolAmount), indexToken.Decimals, indexPrice.Min)
		if impactUsd.Cmp(maxFromPool) > 0 {
			impactUsd = maxFromPool
		}
	}

	if pool.MaxPositionImpactFactorPositive != nil && sizeDeltaUsd != nil {
		absSize := new(big.Int).Abs(sizeDeltaUsd)
		maxFromFactor := fixedpoint.ApplyFactor(absSize, pool.MaxPositionImpactFactorPositive)
		if impactUsd.Cmp(maxFromFactor) > 0 {
			impactUsd = maxFromFactor
		}
	}

	return impactUsd
}

// AcceptablePriceInfo is the full acceptable-price computation for an order.
type AcceptablePriceInfo struct {
	AcceptablePrice         *big.Int
	AcceptablePriceDeltaBps *big.Int
	PriceImpactDeltaUsd     *big.Int
	PriceImpactDeltaAmount  *big.Int
	// PriceImpactDiffUsd is negative impact beyond the pool's configured
	// ceiling on a decrease; it cannot be absorbed by the pool and must be
	// handled (socialized or rejected) by the caller.
	PriceImpactDiffUsd *big.Int
}

// GetAcceptablePriceInfo composes the acceptable price for live order entry.
// When maxNegativePriceImpactBps is set (limit/trigger orders), the
// acceptable price is derived directly from that bound and the impact is
// implied from it. Otherwise (market orders) the impact comes from the live
// pool state, clamped on decreases to the pool's negative-impact ceiling
// with the excess reported as PriceImpactDiffUsd.
func GetAcceptablePriceInfo(pool *model.Pool, snapshot *model.Snapshot, isIncrease, isLong bool, indexPrice, sizeDeltaUsd, maxNegativePriceImpactBps *big.Int) AcceptablePriceInfo {
	info := AcceptablePriceInfo{
		AcceptablePrice:         new(big.Int),
		AcceptablePriceDeltaBps: new(big.Int),
		PriceImpactDeltaUsd:     new(big.Int),
		PriceImpactDeltaAmount:  new(big.Int),
		PriceImpactDiffUsd:      new(big.Int),
	}
	if sizeDeltaUsd == nil || sizeDeltaUsd.Sign() <= 0 || indexPrice == nil || indexPrice.Sign() == 0 {
		if indexPrice != nil {
			info.AcceptablePrice.Set(indexPrice)
		}
		return info
	}

	indexDecimals := 0
	if indexToken, ok := snapshot.TokenByAddress(pool.IndexToken); ok {
		indexDecimals = indexToken.Decimals
	}

	if maxNegativePriceImpactBps != nil && maxNegativePriceImpactBps.Sign() > 0 {
		impliedImpact := new(big.Int).Mul(sizeDeltaUsd, maxNegativePriceImpactBps)
		impliedImpact.Quo(impliedImpact, big.NewInt(fixedpoint.BasisPointsDivisor))
		impliedImpact.Neg(impliedImpact)

		result := AcceptablePriceByPriceImpact(isIncrease, isLong, indexPrice, sizeDeltaUsd, impliedImpact)
		implied := PriceImpactByAcceptablePrice(isIncrease, isLong, indexPrice, result.AcceptablePrice, sizeDeltaUsd, indexDecimals)

		info.AcceptablePrice = result.AcceptablePrice
		info.AcceptablePriceDeltaBps = result.AcceptablePriceDeltaBps
		info.PriceImpactDeltaUsd = implied.PriceImpactDeltaUsd
		info.PriceImpactDeltaAmount = implied.PriceImpactDeltaAmount
		return info
	}

	positionSizeDelta := new(big.Int).Set(sizeDeltaUsd)
	if !isIncrease {
		positionSizeDelta.Neg(positionSizeDelta)
	}
	impactUsd := CappedPositionImpactUsd(pool, snapshot, positionSizeDelta, isLong)

	if !isIncrease && impactUsd.Sign() < 0 && pool.MaxPositionImpactFactorNegative != nil {
		minNegativeImpact := fixedpoint.ApplyFactor(sizeDeltaUsd, pool.MaxPositionImpactFactorNegative)
		minNegativeImpact.Neg(minNegativeImpact)
		if impactUsd.Cmp(minNegativeImpact) < 0 {
			diff := new(big.Int).Sub(minNegativeImpact, impactUsd)
			info.PriceImpactDiffUsd = diff
			impactUsd = minNegativeImpact
		}
	}

	result := AcceptablePriceByPriceImpact(isIncrease, isLong, indexPrice, sizeDeltaUsd, impactUsd)
	info.AcceptablePrice = result.AcceptablePrice
	info.AcceptablePriceDeltaBps = result.AcceptablePriceDeltaBps
	info.PriceImpactDeltaUsd = impactUsd

	scaled := new(big.Int).Mul(impactUsd, fixedpoint.Exp10(indexDecimals))
	if impactUsd.Sign() >= 0 {
		info.PriceImpactDeltaAmount = scaled.Quo(scaled, indexPrice)
	} else {
		info.PriceImpactDeltaAmount = fixedpoint.RoundUpMagnitudeDivision(scaled, indexPrice)
	}
	return info
}

func zeroIfNil(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value
}
