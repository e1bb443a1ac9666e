package impact

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

// CappedPoolPnl returns trader pnl for one direction, capping positive pnl
// at poolUsd * maxPnlFactorForTraders. Losses pass through unmodified.
func CappedPoolPnl(pool *model.Pool, poolUsd *big.Int, isLong, maximize bool) *big.Int {
	pnl := pool.Pnl(isLong, maximize)
	if pnl == nil {
		return new(big.Int)
	}
	if pnl.Sign() <= 0 {
		return new(big.Int).Set(pnl)
	}

	if pool.MaxPnlFactorForTraders == nil || poolUsd == nil {
		return new(big.Int).Set(pnl)
	}
	maxPnl := fixedpoint.ApplyFactor(poolUsd, pool.MaxPnlFactorForTraders)
	if pnl.Cmp(maxPnl) > 0 {
		return maxPnl
	}
	return new(big.Int).Set(pnl)
}
