package fees

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

// PositionFees breaks down the fee charged on a position size change.
type PositionFees struct {
	PositionFeeUsd *big.Int
	DiscountUsd    *big.Int
	TotalRebateUsd *big.Int
	UiFeeUsd       *big.Int
}

// PositionFee computes the fee on sizeDeltaUsd. The fee factor is selected
// by the sign of the trade's price impact; a referral record reduces the fee
// by the referral discount.
func PositionFee(pool *model.Pool, sizeDeltaUsd *big.Int, forPositiveImpact bool, referral *model.ReferralInfo, uiFeeFactor *big.Int) PositionFees {
	result := PositionFees{
		PositionFeeUsd: new(big.Int),
		DiscountUsd:    new(big.Int),
		TotalRebateUsd: new(big.Int),
		UiFeeUsd:       new(big.Int),
	}
	if sizeDeltaUsd == nil || sizeDeltaUsd.Sign() == 0 {
		return result
	}

	factor := pool.PositionFeeFactorNegative
	if forPositiveImpact {
		factor = pool.PositionFeeFactorPositive
	}
	if factor != nil {
		result.PositionFeeUsd = fixedpoint.ApplyFactor(sizeDeltaUsd, factor)
	}

	if referral != nil && referral.TotalRebateFactor != nil {
		result.TotalRebateUsd = fixedpoint.ApplyFactor(result.PositionFeeUsd, referral.TotalRebateFactor)
		if referral.DiscountFactor != nil {
			result.DiscountUsd = fixedpoint.ApplyFactor(result.TotalRebateUsd, referral.DiscountFactor)
		}
		result.PositionFeeUsd = new(big.Int).Sub(result.PositionFeeUsd, result.DiscountUsd)
	}

	if uiFeeFactor != nil && uiFeeFactor.Sign() > 0 {
		result.UiFeeUsd = fixedpoint.ApplyFactor(sizeDeltaUsd, uiFeeFactor)
	}

	return result
}
