package fees

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

// SwapFee computes the fee on a swap of swapUsd through the pool. The fee
// factor is selected by the sign of the swap's price impact.
func SwapFee(pool *model.Pool, swapUsd *big.Int, forPositiveImpact bool) *big.Int {
	if swapUsd == nil || swapUsd.Sign() == 0 {
		return new(big.Int)
	}
	factor := pool.SwapFeeFactorNegative
	if forPositiveImpact {
		factor = pool.SwapFeeFactorPositive
	}
	if factor == nil {
		return new(big.Int)
	}
	return fixedpoint.ApplyFactor(swapUsd, factor)
}

// UiFee computes the front-end fee on a USD amount.
func UiFee(amountUsd, uiFeeFactor *big.Int) *big.Int {
	if amountUsd == nil || uiFeeFactor == nil || uiFeeFactor.Sign() == 0 {
		return new(big.Int)
	}
	return fixedpoint.ApplyFactor(amountUsd, uiFeeFactor)
}
