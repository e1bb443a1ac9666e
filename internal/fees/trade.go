package fees

import (
	"math/big"

	"tradeRouter/internal/model"
)

// TradeFeesParams are the inputs to a full trade fee breakdown. Collateral
// and size values are USD-scaled; factors are Precision-scaled.
type TradeFeesParams struct {
	InitialCollateralUsd *big.Int
	SizeDeltaUsd         *big.Int
	SwapSteps            []model.SwapStats
	PositionFees         PositionFees
	BorrowFeeUsd         *big.Int
	FundingFeeUsd        *big.Int
	UiFeeFactor          *big.Int
}

// TradeFees is the aggregated fee breakdown for one trade. Bps bases differ
// per item: position-related fees are relative to the trade size, swap
// related fees to the collateral being swapped.
type TradeFees struct {
	SwapFees        []FeeItem
	SwapPriceImpact FeeItem
	PositionFee     FeeItem
	BorrowFee       FeeItem
	FundingFee      FeeItem
	UiFee           FeeItem
	UiSwapFee       FeeItem
	FeeDiscountUsd  *big.Int
	TotalFees       FeeItem
	PayTotalFees    FeeItem
}

// GetTradeFees aggregates swap, position, borrow, funding, and UI fees into
// a single breakdown. Costs carry negative DeltaUsd.
func GetTradeFees(p TradeFeesParams) TradeFees {
	collateralUsd := orZero(p.InitialCollateralUsd)
	sizeDeltaUsd := orZero(p.SizeDeltaUsd)

	swapFees := make([]FeeItem, 0, len(p.SwapSteps))
	totalSwapImpactUsd := new(big.Int)
	totalSwapVolumeUsd := new(big.Int)
	for _, step := range p.SwapSteps {
		feeUsd := new(big.Int).Neg(orZero(step.SwapFeeUsd))
		swapFees = append(swapFees, NewFeeItem(feeUsd, collateralUsd))
		totalSwapImpactUsd.Add(totalSwapImpactUsd, orZero(step.PriceImpactDeltaUsd))
		totalSwapVolumeUsd.Add(totalSwapVolumeUsd, orZero(step.UsdIn))
	}

	swapPriceImpact := NewFeeItem(totalSwapImpactUsd, collateralUsd)

	positionFee := NewFeeItem(new(big.Int).Neg(orZero(p.PositionFees.PositionFeeUsd)), sizeDeltaUsd)
	borrowFee := NewFeeItem(new(big.Int).Neg(orZero(p.BorrowFeeUsd)), collateralUsd)
	fundingFee := NewFeeItem(new(big.Int).Neg(orZero(p.FundingFeeUsd)), collateralUsd)
	uiFee := NewFeeItem(new(big.Int).Neg(orZero(p.PositionFees.UiFeeUsd)), sizeDeltaUsd)

	uiSwapFeeUsd := new(big.Int).Neg(UiFee(totalSwapVolumeUsd, p.UiFeeFactor))
	uiSwapFee := NewFeeItem(uiSwapFeeUsd, collateralUsd)

	items := make([]FeeItem, 0, len(swapFees)+6)
	items = append(items, swapFees...)
	items = append(items, swapPriceImpact, positionFee, borrowFee, fundingFee, uiFee, uiSwapFee)
	total := GetTotalFeeItem(items...)

	return TradeFees{
		SwapFees:        swapFees,
		SwapPriceImpact: swapPriceImpact,
		PositionFee:     positionFee,
		BorrowFee:       borrowFee,
		FundingFee:      fundingFee,
		UiFee:           uiFee,
		UiSwapFee:       uiSwapFee,
		FeeDiscountUsd:  new(big.Int).Set(orZero(p.PositionFees.DiscountUsd)),
		TotalFees:       total,
		PayTotalFees:    total,
	}
}

func orZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value
}
