package model

import "math/big"

// ReferralInfo carries the referral program factors applied to position fees.
// Factors are Precision-scaled.
type ReferralInfo struct {
	Code              string
	TotalRebateFactor *big.Int
	DiscountFactor    *big.Int
}
