package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/fees"
	"tradeRouter/internal/impact"
	"tradeRouter/internal/model"
	"tradeRouter/internal/pricing"
)

// SwapEstimator estimates one swap hop: usdIn through the pool connecting
// tokenIn to tokenOut. ok is false when the hop cannot be priced (missing
// pool, token, or price data).
type SwapEstimator func(market, tokenIn common.Address, usdIn *big.Int) (model.SwapStats, bool)

// CreateSwapEstimator builds a per-hop cost function over a snapshot. Input
// is valued at the min price and output at the max price; the swap fee and
// the capped pool price impact are applied on the way through.
func CreateSwapEstimator(snapshot *model.Snapshot) SwapEstimator {
	return func(market, tokenIn common.Address, usdIn *big.Int) (model.SwapStats, bool) {
		pool, ok := snapshot.PoolByMarket(market)
		if !ok || pool.IsDisabled {
			return model.SwapStats{}, false
		}
		tokenOutAddr, ok := pool.OppositeCollateral(tokenIn)
		if !ok {
			return model.SwapStats{}, false
		}

		tokenInMeta, okIn := snapshot.TokenByAddress(tokenIn)
		tokenOutMeta, okOut := snapshot.TokenByAddress(tokenOutAddr)
		if !okIn || !okOut {
			return model.SwapStats{}, false
		}
		priceIn, okIn := snapshot.PriceByToken(tokenIn)
		priceOut, okOut := snapshot.PriceByToken(tokenOutAddr)
		if !okIn || !okOut {
			return model.SwapStats{}, false
		}
		if usdIn == nil || usdIn.Sign() <= 0 {
			return model.SwapStats{}, false
		}

		amountIn := pricing.UsdToTokenAmount(usdIn, tokenInMeta.Decimals, priceIn.Min)
		priceImpactUsd := impact.PriceImpactForSwap(pool, snapshot, tokenIn, tokenOutAddr, usdIn)

		swapFeeUsd := fees.SwapFee(pool, usdIn, priceImpactUsd.Sign() > 0)
		usdAfterFees := new(big.Int).Sub(usdIn, swapFeeUsd)

		stats := model.SwapStats{
			MarketAddress:       market,
			TokenInAddress:      tokenIn,
			TokenOutAddress:     tokenOutAddr,
			UsdIn:               new(big.Int).Set(usdIn),
			AmountIn:            amountIn,
			SwapFeeUsd:          swapFeeUsd,
			PriceImpactDeltaUsd: priceImpactUsd,
			CappedDiffUsd:       new(big.Int),
		}

		if priceImpactUsd.Sign() > 0 {
			// Positive impact pays out extra out-tokens from the impact pool.
			settled := impact.ApplySwapImpactWithCap(pool, tokenOutMeta, priceOut, priceImpactUsd)
			stats.CappedDiffUsd = settled.CappedDiffUsd

			usdOut := new(big.Int).Set(usdAfterFees)
			amountOut := pricing.UsdToTokenAmount(usdOut, tokenOutMeta.Decimals, priceOut.Max)
			amountOut.Add(amountOut, settled.ImpactDeltaAmount)
			usdOut.Add(usdOut, pricing.TokenAmountToUsd(settled.ImpactDeltaAmount, tokenOutMeta.Decimals, priceOut.Max))

			stats.UsdOut = usdOut
			stats.AmountOut = amountOut
			return stats, true
		}

		// Negative impact is charged in additional in-tokens.
		settled := impact.ApplySwapImpactWithCap(pool, tokenInMeta, priceIn, priceImpactUsd)
		chargeUsd := pricing.TokenAmountToUsd(settled.ImpactDeltaAmount, tokenInMeta.Decimals, priceIn.Min)
		usdOut := new(big.Int).Add(usdAfterFees, chargeUsd)
		if usdOut.Sign() < 0 {
			usdOut.SetInt64(0)
		}

		stats.UsdOut = usdOut
		stats.AmountOut = pricing.UsdToTokenAmount(usdOut, tokenOutMeta.Decimals, priceOut.Max)
		return stats, true
	}
}
