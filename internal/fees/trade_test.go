package fees

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

func usd(amount int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(amount), fixedpoint.Exp10(fixedpoint.USDDecimals))
}

func factorBps(bps int64) *big.Int {
	return fixedpoint.BasisPointsToFactor(big.NewInt(bps))
}

// percentFactor returns pct% as a Precision-scaled factor.
func percentFactor(pct int64) *big.Int {
	result := new(big.Int).Mul(big.NewInt(pct), fixedpoint.Precision)
	return result.Quo(result, big.NewInt(100))
}

func TestNewFeeItem(t *testing.T) {
	item := NewFeeItem(usd(-10), usd(1000))
	if item.DeltaUsd.Cmp(usd(-10)) != 0 {
		t.Fatalf("deltaUsd: got %s", item.DeltaUsd)
	}
	if item.Bps.Int64() != -100 {
		t.Fatalf("bps: got %d, want -100", item.Bps.Int64())
	}

	zeroBasis := NewFeeItem(usd(-10), nil)
	if zeroBasis.Bps.Sign() != 0 {
		t.Fatalf("nil basis bps: got %s, want 0", zeroBasis.Bps)
	}
}

func TestGetTotalFeeItemOrderIndependent(t *testing.T) {
	a := NewFeeItem(usd(-10), usd(1000))
	b := NewFeeItem(usd(-3), usd(1000))
	c := NewFeeItem(usd(7), usd(1000))

	forward := GetTotalFeeItem(a, b, c)
	reverse := GetTotalFeeItem(c, b, a)
	grouped := GetTotalFeeItem(GetTotalFeeItem(a, b), c)

	if forward.DeltaUsd.Cmp(reverse.DeltaUsd) != 0 || forward.Bps.Cmp(reverse.Bps) != 0 {
		t.Fatalf("order changed total: %s/%s vs %s/%s", forward.DeltaUsd, forward.Bps, reverse.DeltaUsd, reverse.Bps)
	}
	if forward.DeltaUsd.Cmp(grouped.DeltaUsd) != 0 || forward.Bps.Cmp(grouped.Bps) != 0 {
		t.Fatalf("grouping changed total: %s/%s vs %s/%s", forward.DeltaUsd, forward.Bps, grouped.DeltaUsd, grouped.Bps)
	}
	if forward.DeltaUsd.Cmp(usd(-6)) != 0 {
		t.Fatalf("total deltaUsd: got %s, want %s", forward.DeltaUsd, usd(-6))
	}
}

func TestPositionFee(t *testing.T) {
	pool := &model.Pool{
		PositionFeeFactorPositive: factorBps(5),
		PositionFeeFactorNegative: factorBps(7),
	}

	plain := PositionFee(pool, usd(1_000_000), false, nil, nil)
	if plain.PositionFeeUsd.Cmp(usd(700)) != 0 {
		t.Fatalf("negative-impact fee: got %s, want %s", plain.PositionFeeUsd, usd(700))
	}

	positive := PositionFee(pool, usd(1_000_000), true, nil, nil)
	if positive.PositionFeeUsd.Cmp(usd(500)) != 0 {
		t.Fatalf("positive-impact fee: got %s, want %s", positive.PositionFeeUsd, usd(500))
	}

	if zero := PositionFee(pool, nil, false, nil, nil); zero.PositionFeeUsd.Sign() != 0 {
		t.Fatalf("nil size fee: got %s", zero.PositionFeeUsd)
	}
}

func TestPositionFeeWithReferral(t *testing.T) {
	pool := &model.Pool{
		PositionFeeFactorPositive: factorBps(5),
		PositionFeeFactorNegative: factorBps(5),
	}
	referral := &model.ReferralInfo{
		Code:              "trader",
		TotalRebateFactor: percentFactor(10),
		DiscountFactor:    percentFactor(50),
	}

	result := PositionFee(pool, usd(1_000_000), true, referral, factorBps(1))

	// Base fee 500, rebate 10% = 50, trader discount 50% of rebate = 25.
	if result.TotalRebateUsd.Cmp(usd(50)) != 0 {
		t.Fatalf("rebate: got %s, want %s", result.TotalRebateUsd, usd(50))
	}
	if result.DiscountUsd.Cmp(usd(25)) != 0 {
		t.Fatalf("discount: got %s, want %s", result.DiscountUsd, usd(25))
	}
	if result.PositionFeeUsd.Cmp(usd(475)) != 0 {
		t.Fatalf("net fee: got %s, want %s", result.PositionFeeUsd, usd(475))
	}
	if result.UiFeeUsd.Cmp(usd(100)) != 0 {
		t.Fatalf("ui fee: got %s, want %s", result.UiFeeUsd, usd(100))
	}
}

func TestSwapFee(t *testing.T) {
	pool := &model.Pool{
		SwapFeeFactorPositive: factorBps(5),
		SwapFeeFactorNegative: factorBps(10),
	}
	if got := SwapFee(pool, usd(10_000), false); got.Cmp(usd(10)) != 0 {
		t.Fatalf("negative-impact swap fee: got %s, want %s", got, usd(10))
	}
	if got := SwapFee(pool, usd(10_000), true); got.Cmp(usd(5)) != 0 {
		t.Fatalf("positive-impact swap fee: got %s, want %s", got, usd(5))
	}
	if got := SwapFee(pool, nil, false); got.Sign() != 0 {
		t.Fatalf("nil swap usd: got %s", got)
	}
}

func TestGetTradeFees(t *testing.T) {
	market := common.HexToAddress("0x1111111111111111111111111111111111111111")
	steps := []model.SwapStats{
		{
			MarketAddress:       market,
			UsdIn:               usd(1000),
			SwapFeeUsd:          usd(10),
			PriceImpactDeltaUsd: usd(-5),
		},
	}

	fees := GetTradeFees(TradeFeesParams{
		InitialCollateralUsd: usd(1000),
		SizeDeltaUsd:         usd(10_000),
		SwapSteps:            steps,
		PositionFees: PositionFees{
			PositionFeeUsd: usd(40),
			DiscountUsd:    usd(4),
			UiFeeUsd:       usd(1),
		},
		BorrowFeeUsd:  usd(3),
		FundingFeeUsd: usd(2),
		UiFeeFactor:   factorBps(10),
	})

	if len(fees.SwapFees) != 1 {
		t.Fatalf("swap fee items: got %d, want 1", len(fees.SwapFees))
	}
	if fees.SwapFees[0].DeltaUsd.Cmp(usd(-10)) != 0 {
		t.Fatalf("swap fee delta: got %s, want %s", fees.SwapFees[0].DeltaUsd, usd(-10))
	}
	// Swap fee basis is collateral, not trade size.
	if fees.SwapFees[0].Bps.Int64() != -100 {
		t.Fatalf("swap fee bps: got %d, want -100", fees.SwapFees[0].Bps.Int64())
	}
	// Position fee basis is trade size.
	if fees.PositionFee.Bps.Int64() != -40 {
		t.Fatalf("position fee bps: got %d, want -40", fees.PositionFee.Bps.Int64())
	}
	// UI swap fee is 10bps of swap volume.
	if fees.UiSwapFee.DeltaUsd.Cmp(usd(-1)) != 0 {
		t.Fatalf("ui swap fee: got %s, want %s", fees.UiSwapFee.DeltaUsd, usd(-1))
	}
	if fees.FeeDiscountUsd.Cmp(usd(4)) != 0 {
		t.Fatalf("discount: got %s, want %s", fees.FeeDiscountUsd, usd(4))
	}

	// -10 swap fee -5 impact -40 position -3 borrow -2 funding -1 ui -1 ui swap.
	if fees.TotalFees.DeltaUsd.Cmp(usd(-62)) != 0 {
		t.Fatalf("total: got %s, want %s", fees.TotalFees.DeltaUsd, usd(-62))
	}
	if fees.PayTotalFees.DeltaUsd.Cmp(fees.TotalFees.DeltaUsd) != 0 {
		t.Fatalf("payTotal diverges from total: %s vs %s", fees.PayTotalFees.DeltaUsd, fees.TotalFees.DeltaUsd)
	}
}

func TestEstimateExecutionFee(t *testing.T) {
	gasLimits := model.GasLimitsConfig{
		EstimatedFeeBaseGas:    100_000,
		EstimatedFeeMultiplier: halfExtra(),
	}
	feeToken := model.Token{Decimals: 18, Symbol: "WETH"}
	price := model.Price{Min: usd(2_000), Max: usd(2_000)}
	gasPrice := big.NewInt(1_000_000_000)

	fee := EstimateExecutionFee(gasLimits, feeToken, price, 200_000, gasPrice)

	// 200k * 1.5 + 100k base.
	if fee.GasLimit != 400_000 {
		t.Fatalf("gas limit: got %d, want 400000", fee.GasLimit)
	}
	wantAmount := new(big.Int).Mul(big.NewInt(400_000), gasPrice)
	if fee.FeeTokenAmount.Cmp(wantAmount) != 0 {
		t.Fatalf("fee token amount: got %s, want %s", fee.FeeTokenAmount, wantAmount)
	}
	// 4e14 wei of a 2000 USD token = 0.8 USD.
	wantUsd := new(big.Int).Quo(new(big.Int).Mul(big.NewInt(8), fixedpoint.Exp10(fixedpoint.USDDecimals)), big.NewInt(10))
	if fee.FeeUsd.Cmp(wantUsd) != 0 {
		t.Fatalf("fee usd: got %s, want %s", fee.FeeUsd, wantUsd)
	}

	empty := EstimateExecutionFee(gasLimits, feeToken, price, 200_000, nil)
	if empty.FeeUsd.Sign() != 0 || empty.GasLimit != 0 {
		t.Fatalf("nil gas price: got %s / %d", empty.FeeUsd, empty.GasLimit)
	}
}

// halfExtra is a 1.5x Precision-scaled multiplier.
func halfExtra() *big.Int {
	result := new(big.Int).Mul(big.NewInt(3), fixedpoint.Precision)
	return result.Quo(result, big.NewInt(2))
}

func TestGasLimitEstimators(t *testing.T) {
	gasLimits := model.GasLimitsConfig{
		DepositSingleToken:   900_000,
		DepositMultiToken:    1_100_000,
		WithdrawalMultiToken: 1_000_000,
		IncreaseOrder:        4_000_000,
		DecreaseOrder:        4_100_000,
		SwapOrder:            3_000_000,
		SingleSwap:           200_000,
	}

	if got := EstimateDepositGasLimit(gasLimits, true, 0, 0); got != 900_000 {
		t.Fatalf("single deposit: got %d", got)
	}
	if got := EstimateDepositGasLimit(gasLimits, false, 2, 50_000); got != 1_550_000 {
		t.Fatalf("multi deposit with hops: got %d", got)
	}
	if got := EstimateWithdrawalGasLimit(gasLimits, 50_000); got != 1_050_000 {
		t.Fatalf("withdrawal: got %d", got)
	}
	if got := EstimateIncreaseOrderGasLimit(gasLimits, 1, 0); got != 4_200_000 {
		t.Fatalf("increase order: got %d", got)
	}
	if got := EstimateDecreaseOrderGasLimit(gasLimits, 0, 0); got != 4_100_000 {
		t.Fatalf("decrease order: got %d", got)
	}
	if got := EstimateSwapOrderGasLimit(gasLimits, 3, 0); got != 3_600_000 {
		t.Fatalf("swap order: got %d", got)
	}
}
