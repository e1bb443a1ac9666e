package impact

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
)

// DefaultAcceptablePriceImpactBufferBps is the slippage buffer applied on
// top of the currently observed price impact when deriving a default
// acceptable-price bound.
const DefaultAcceptablePriceImpactBufferBps = 30

// AcceptablePriceResult is the outcome of an acceptable-price derivation.
type AcceptablePriceResult struct {
	AcceptablePrice         *big.Int
	PriceDeltaUsd           *big.Int
	AcceptablePriceDeltaBps *big.Int
}

// ShouldUseMaxPrice reports whether an order executes against the max side
// of the quote: increasing a long or decreasing a short.
func ShouldUseMaxPrice(isIncrease, isLong bool) bool {
	if isIncrease {
		return isLong
	}
	return !isLong
}

// AcceptablePriceByPriceImpact derives the worst tolerable execution price
// from an expected price impact. Zero size or zero index price short-circuits
// to the index price with zero delta.
func AcceptablePriceByPriceImpact(isIncrease, isLong bool, indexPrice, sizeDeltaUsd, priceImpactDeltaUsd *big.Int) AcceptablePriceResult {
	if sizeDeltaUsd == nil || sizeDeltaUsd.Sign() <= 0 || indexPrice == nil || indexPrice.Sign() == 0 {
		base := new(big.Int)
		if indexPrice != nil {
			base = new(big.Int).Set(indexPrice)
		}
		return AcceptablePriceResult{
			AcceptablePrice:         base,
			PriceDeltaUsd:           new(big.Int),
			AcceptablePriceDeltaBps: new(big.Int),
		}
	}

	signedImpact := new(big.Int)
	if priceImpactDeltaUsd != nil {
		signedImpact.Set(priceImpactDeltaUsd)
	}
	if ShouldUseMaxPrice(isIncrease, isLong) {
		signedImpact.Neg(signedImpact)
	}

	adjustedSize := new(big.Int).Add(sizeDeltaUsd, signedImpact)
	acceptablePrice := new(big.Int).Mul(indexPrice, adjustedSize)
	acceptablePrice.Quo(acceptablePrice, sizeDeltaUsd)

	priceDelta := new(big.Int).Sub(acceptablePrice, indexPrice)
	bps := fixedpoint.BasisPoints(priceDelta, indexPrice)

	return AcceptablePriceResult{
		AcceptablePrice:         acceptablePrice,
		PriceDeltaUsd:           priceDelta,
		AcceptablePriceDeltaBps: bps,
	}
}

// PriceImpactByAcceptablePriceResult is the implied impact of a chosen
// acceptable price.
type PriceImpactByAcceptablePriceResult struct {
	PriceImpactDeltaUsd    *big.Int
	PriceImpactDeltaAmount *big.Int
	PriceDeltaBps          *big.Int
}

// PriceImpactByAcceptablePrice backs out the USD and token-amount price
// impact implied by a chosen acceptable price. indexTokenDecimals scales
// the amount result.
func PriceImpactByAcceptablePrice(isIncrease, isLong bool, indexPrice, acceptablePrice, sizeDeltaUsd *big.Int, indexTokenDecimals int) PriceImpactByAcceptablePriceResult {
	zero := PriceImpactByAcceptablePriceResult{
		PriceImpactDeltaUsd:    new(big.Int),
		PriceImpactDeltaAmount: new(big.Int),
		PriceDeltaBps:          new(big.Int),
	}
	if sizeDeltaUsd == nil || sizeDeltaUsd.Sign() <= 0 ||
		indexPrice == nil || indexPrice.Sign() == 0 ||
		acceptablePrice == nil || acceptablePrice.Sign() == 0 {
		return zero
	}

	priceDelta := new(big.Int).Sub(indexPrice, acceptablePrice)
	shouldFlip := isLong
	if isIncrease {
		shouldFlip = !isLong
	}
	if shouldFlip {
		priceDelta.Neg(priceDelta)
	}

	impactUsd := new(big.Int).Mul(sizeDeltaUsd, priceDelta)
	impactUsd.Quo(impactUsd, acceptablePrice)

	scaled := new(big.Int).Mul(impactUsd, fixedpoint.Exp10(indexTokenDecimals))
	var impactAmount *big.Int
	if impactUsd.Sign() >= 0 {
		impactAmount = scaled.Quo(scaled, indexPrice)
	} else {
		impactAmount = fixedpoint.RoundUpMagnitudeDivision(scaled, indexPrice)
	}

	return PriceImpactByAcceptablePriceResult{
		PriceImpactDeltaUsd:    impactUsd,
		PriceImpactDeltaAmount: impactAmount,
		PriceDeltaBps:          fixedpoint.BasisPoints(priceDelta, indexPrice),
	}
}

// DefaultAcceptablePriceImpactBps returns the default acceptable-impact bound
// for order entry. Favorable impact needs only the fixed buffer; unfavorable
// impact gets the buffer added on top of the observed impact so the buffer is
// additional tolerance, not a replacement.
func DefaultAcceptablePriceImpactBps(isIncrease, isLong bool, indexPrice, sizeDeltaUsd, priceImpactDeltaUsd *big.Int, bufferBps int64) *big.Int {
	if bufferBps <= 0 {
		bufferBps = DefaultAcceptablePriceImpactBufferBps
	}
	buffer := big.NewInt(bufferBps)

	if priceImpactDeltaUsd == nil || priceImpactDeltaUsd.Sign() > 0 {
		return buffer
	}

	result := AcceptablePriceByPriceImpact(isIncrease, isLong, indexPrice, sizeDeltaUsd, priceImpactDeltaUsd)
	base := new(big.Int).Abs(result.AcceptablePriceDeltaBps)
	return base.Add(base, buffer)
}
