package impact

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
	"tradeRouter/internal/pricing"
)

// PriceImpactForSwap computes the signed USD price impact of swapping usdIn
// through a pool: the in-token side grows by usdIn while the out-token side
// shrinks by the same value at mid prices. Returns zero when prices or
// tokens are unavailable.
func PriceImpactForSwap(pool *model.Pool, snapshot *model.Snapshot, tokenIn, tokenOut common.Address, usdIn *big.Int) *big.Int {
	if usdIn == nil || usdIn.Sign() == 0 {
		return new(big.Int)
	}
	if !pool.HasCollateral(tokenIn) || !pool.HasCollateral(tokenOut) {
		return new(big.Int)
	}

	longUsd := midPoolUsd(pool, snapshot, pool.LongToken, pool.LongPoolAmount)
	shortUsd := midPoolUsd(pool, snapshot, pool.ShortToken, pool.ShortPoolAmount)

	nextLongUsd := new(big.Int).Set(longUsd)
	nextShortUsd := new(big.Int).Set(shortUsd)
	if pool.IsLongCollateral(tokenIn) {
		nextLongUsd.Add(nextLongUsd, usdIn)
		nextShortUsd.Sub(nextShortUsd, usdIn)
	} else {
		nextShortUsd.Add(nextShortUsd, usdIn)
		nextLongUsd.Sub(nextLongUsd, usdIn)
	}

	if nextLongUsd.Sign() < 0 || nextShortUsd.Sign() < 0 {
		// Swap would drain a side entirely; charge as a full imbalance.
		nextLongUsd.Abs(nextLongUsd)
		nextShortUsd.Abs(nextShortUsd)
	}

	return priceImpactForImbalance(
		longUsd, shortUsd,
		nextLongUsd, nextShortUsd,
		pool.SwapImpactFactorPositive, pool.SwapImpactFactorNegative,
		pool.SwapImpactExponent,
	)
}

// SwapImpactAmounts is the result of settling a swap impact against the
// pool's impact reserve.
type SwapImpactAmounts struct {
	// ImpactDeltaAmount is the impact settled in the given token, positive
	// when paid to the user.
	ImpactDeltaAmount *big.Int
	// CappedDiffUsd is positive impact the pool could not pay out.
	CappedDiffUsd *big.Int
}

// ApplySwapImpactWithCap settles priceImpactDeltaUsd in the given token.
// Positive impact is credited up to the pool's impact reserve for that
// token's side, with any excess recorded as CappedDiffUsd. Negative impact
// is charged in full, rounded up in magnitude so the pool never
// under-charges.
func ApplySwapImpactWithCap(pool *model.Pool, token model.Token, price model.Price, priceImpactDeltaUsd *big.Int) SwapImpactAmounts {
	result := SwapImpactAmounts{
		ImpactDeltaAmount: new(big.Int),
		CappedDiffUsd:     new(big.Int),
	}
	if priceImpactDeltaUsd == nil || priceImpactDeltaUsd.Sign() == 0 || price.IsZero() {
		return result
	}

	unit := fixedpoint.Exp10(token.Decimals)

	if priceImpactDeltaUsd.Sign() > 0 {
		amount := new(big.Int).Mul(priceImpactDeltaUsd, unit)
		amount.Quo(amount, price.Max)

		maxAmount := pool.SwapImpactPoolAmount(token.Address)
		if maxAmount == nil {
			maxAmount = new(big.Int)
		}
		if amount.Cmp(maxAmount) > 0 {
			excess := new(big.Int).Sub(amount, maxAmount)
			excess.Mul(excess, price.Max)
			excess.Quo(excess, unit)
			result.CappedDiffUsd = excess
			amount = new(big.Int).Set(maxAmount)
		}
		result.ImpactDeltaAmount = amount
		return result
	}

	scaled := new(big.Int).Mul(priceImpactDeltaUsd, unit)
	result.ImpactDeltaAmount = fixedpoint.RoundUpMagnitudeDivision(scaled, price.Min)
	return result
}

func midPoolUsd(pool *model.Pool, snapshot *model.Snapshot, tokenAddr common.Address, amount *big.Int) *big.Int {
	token, ok := snapshot.TokenByAddress(tokenAddr)
	if !ok {
		return new(big.Int)
	}
	price, ok := snapshot.PriceByToken(tokenAddr)
	if !ok {
		return new(big.Int)
	}
	return pricing.TokenAmountToUsd(amount, token.Decimals, price.Mid())
}
