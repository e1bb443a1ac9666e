package model

import "math/big"

// GasLimitsConfig holds per-operation gas-unit constants read from the chain
// data store. Treated as read-only input to execution-fee estimation.
type GasLimitsConfig struct {
	DepositSingleToken    uint64
	DepositMultiToken     uint64
	WithdrawalMultiToken  uint64
	IncreaseOrder         uint64
	DecreaseOrder         uint64
	SwapOrder             uint64
	SingleSwap            uint64
	EstimatedFeeBaseGas   uint64
	EstimatedFeeMultiplier *big.Int
}
