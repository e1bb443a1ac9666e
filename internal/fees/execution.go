package fees

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
	"tradeRouter/internal/pricing"
)

// ExecutionFee is the estimated keeper gas cost of executing an operation,
// denominated in the network fee token.
type ExecutionFee struct {
	FeeUsd         *big.Int
	FeeTokenAmount *big.Int
	GasLimit       uint64
	FeeToken       model.Token
}

// EstimateExecutionFee computes the execution fee for an operation with the
// given estimated gas limit: adjusted gas is the configured base plus the
// estimate scaled by the multiplier factor, priced at the current gas price
// and the fee token's min price.
func EstimateExecutionFee(gasLimits model.GasLimitsConfig, feeToken model.Token, feeTokenPrice model.Price, estimatedGasLimit uint64, gasPrice *big.Int) ExecutionFee {
	result := ExecutionFee{
		FeeUsd:         new(big.Int),
		FeeTokenAmount: new(big.Int),
		FeeToken:       feeToken,
	}
	if gasPrice == nil || feeTokenPrice.IsZero() {
		return result
	}

	adjusted := new(big.Int).SetUint64(estimatedGasLimit)
	if gasLimits.EstimatedFeeMultiplier != nil {
		adjusted = fixedpoint.ApplyFactor(adjusted, gasLimits.EstimatedFeeMultiplier)
	}
	adjusted.Add(adjusted, new(big.Int).SetUint64(gasLimits.EstimatedFeeBaseGas))
	if !adjusted.IsUint64() {
		return result
	}
	result.GasLimit = adjusted.Uint64()

	result.FeeTokenAmount = new(big.Int).Mul(adjusted, gasPrice)
	result.FeeUsd = pricing.TokenAmountToUsd(result.FeeTokenAmount, feeToken.Decimals, feeTokenPrice.Min)
	return result
}

// EstimateDepositGasLimit estimates gas for executing a deposit.
func EstimateDepositGasLimit(gasLimits model.GasLimitsConfig, singleToken bool, swapHops int, callbackGasLimit uint64) uint64 {
	base := gasLimits.DepositMultiToken
	if singleToken {
		base = gasLimits.DepositSingleToken
	}
	return base + gasLimits.SingleSwap*uint64(swapHops) + callbackGasLimit
}

// EstimateWithdrawalGasLimit estimates gas for executing a withdrawal.
func EstimateWithdrawalGasLimit(gasLimits model.GasLimitsConfig, callbackGasLimit uint64) uint64 {
	return gasLimits.WithdrawalMultiToken + callbackGasLimit
}

// EstimateIncreaseOrderGasLimit estimates gas for an increase order.
func EstimateIncreaseOrderGasLimit(gasLimits model.GasLimitsConfig, swapHops int, callbackGasLimit uint64) uint64 {
	return gasLimits.IncreaseOrder + gasLimits.SingleSwap*uint64(swapHops) + callbackGasLimit
}

// EstimateDecreaseOrderGasLimit estimates gas for a decrease order.
func EstimateDecreaseOrderGasLimit(gasLimits model.GasLimitsConfig, swapHops int, callbackGasLimit uint64) uint64 {
	return gasLimits.DecreaseOrder + gasLimits.SingleSwap*uint64(swapHops) + callbackGasLimit
}

// EstimateSwapOrderGasLimit estimates gas for a swap order.
func EstimateSwapOrderGasLimit(gasLimits model.GasLimitsConfig, swapHops int, callbackGasLimit uint64) uint64 {
	return gasLimits.SwapOrder + gasLimits.SingleSwap*uint64(swapHops) + callbackGasLimit
}
