package fees

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
	"tradeRouter/internal/pricing"
)

// Market-token shares use the standard 18-decimal ERC20 representation.
const marketTokenDecimals = 18

// DepositWithdrawalStrategy selects how mint/redeem amounts are derived.
type DepositWithdrawalStrategy int

const (
	// DepositByCollaterals derives minted shares from supplied collateral amounts.
	DepositByCollaterals DepositWithdrawalStrategy = iota
	// DepositByMarketToken derives required collateral from a desired share amount.
	DepositByMarketToken
	// WithdrawalByMarketToken derives collateral out from a redeemed share amount.
	WithdrawalByMarketToken
	// WithdrawalByCollaterals derives the shares to redeem from a desired collateral amount.
	WithdrawalByCollaterals
)

// DepositWithdrawalAmounts is the result of a mint/redeem computation.
type DepositWithdrawalAmounts struct {
	Strategy          DepositWithdrawalStrategy
	LongTokenAmount   *big.Int
	ShortTokenAmount  *big.Int
	LongTokenUsd      *big.Int
	ShortTokenUsd     *big.Int
	MarketTokenAmount *big.Int
	MarketTokenUsd    *big.Int
	SwapFeeUsd        *big.Int
	UiFeeUsd          *big.Int
}

// MarketTokenAmountToUsd values pool shares at the pool's current share
// price (pool value over supply). An empty pool values shares at par.
func MarketTokenAmountToUsd(pool *model.Pool, amount *big.Int) *big.Int {
	if amount == nil || amount.Sign() == 0 {
		return new(big.Int)
	}
	if pool.MarketTokenSupply == nil || pool.MarketTokenSupply.Sign() == 0 || pool.PoolValueUsd == nil {
		return pricing.TokenAmountToUsd(amount, marketTokenDecimals, fixedpoint.Exp10(fixedpoint.USDDecimals))
	}
	usd := new(big.Int).Mul(amount, pool.PoolValueUsd)
	return usd.Quo(usd, pool.MarketTokenSupply)
}

// UsdToMarketTokenAmount is the inverse of MarketTokenAmountToUsd.
func UsdToMarketTokenAmount(pool *model.Pool, usd *big.Int) *big.Int {
	if usd == nil || usd.Sign() == 0 {
		return new(big.Int)
	}
	if pool.MarketTokenSupply == nil || pool.MarketTokenSupply.Sign() == 0 ||
		pool.PoolValueUsd == nil || pool.PoolValueUsd.Sign() == 0 {
		return pricing.UsdToTokenAmount(usd, marketTokenDecimals, fixedpoint.Exp10(fixedpoint.USDDecimals))
	}
	amount := new(big.Int).Mul(usd, pool.MarketTokenSupply)
	return amount.Quo(amount, pool.PoolValueUsd)
}

// GetDepositAmountsByCollaterals computes the shares minted for supplied
// collateral amounts. Collateral is valued at the min price; deposit swap
// fees and the optional UI fee reduce the minted value.
func GetDepositAmountsByCollaterals(pool *model.Pool, snapshot *model.Snapshot, longTokenAmount, shortTokenAmount, uiFeeFactor *big.Int) DepositWithdrawalAmounts {
	result := newAmounts(DepositByCollaterals)

	result.LongTokenAmount = orZero(longTokenAmount)
	result.ShortTokenAmount = orZero(shortTokenAmount)
	result.LongTokenUsd = collateralUsd(snapshot, pool.LongToken, longTokenAmount, false)
	result.ShortTokenUsd = collateralUsd(snapshot, pool.ShortToken, shortTokenAmount, false)

	totalUsd := new(big.Int).Add(result.LongTokenUsd, result.ShortTokenUsd)
	result.SwapFeeUsd = SwapFee(pool, totalUsd, false)
	result.UiFeeUsd = UiFee(totalUsd, uiFeeFactor)

	mintUsd := new(big.Int).Sub(totalUsd, result.SwapFeeUsd)
	mintUsd.Sub(mintUsd, result.UiFeeUsd)
	if mintUsd.Sign() < 0 {
		mintUsd.SetInt64(0)
	}
	result.MarketTokenUsd = mintUsd
	result.MarketTokenAmount = UsdToMarketTokenAmount(pool, mintUsd)
	return result
}

// GetDepositAmountsByMarketToken computes the collateral required to mint a
// desired share amount, split in proportion to the pool's current
// composition and grossed up for fees.
func GetDepositAmountsByMarketToken(pool *model.Pool, snapshot *model.Snapshot, marketTokenAmount, uiFeeFactor *big.Int) DepositWithdrawalAmounts {
	result := newAmounts(DepositByMarketToken)

	result.MarketTokenAmount = orZero(marketTokenAmount)
	result.MarketTokenUsd = MarketTokenAmountToUsd(pool, marketTokenAmount)

	result.SwapFeeUsd = SwapFee(pool, result.MarketTokenUsd, false)
	result.UiFeeUsd = UiFee(result.MarketTokenUsd, uiFeeFactor)

	requiredUsd := new(big.Int).Add(result.MarketTokenUsd, result.SwapFeeUsd)
	requiredUsd.Add(requiredUsd, result.UiFeeUsd)

	longUsd, shortUsd := splitByComposition(pool, snapshot, requiredUsd)
	result.LongTokenUsd = longUsd
	result.ShortTokenUsd = shortUsd
	result.LongTokenAmount = collateralAmount(snapshot, pool.LongToken, longUsd, false)
	result.ShortTokenAmount = collateralAmount(snapshot, pool.ShortToken, shortUsd, false)
	return result
}

// GetWithdrawalAmountsByMarketToken computes collateral received for
// redeeming a share amount, split by pool composition, net of fees.
func GetWithdrawalAmountsByMarketToken(pool *model.Pool, snapshot *model.Snapshot, marketTokenAmount, uiFeeFactor *big.Int) DepositWithdrawalAmounts {
	result := newAmounts(WithdrawalByMarketToken)

	result.MarketTokenAmount = orZero(marketTokenAmount)
	result.MarketTokenUsd = MarketTokenAmountToUsd(pool, marketTokenAmount)

	result.SwapFeeUsd = SwapFee(pool, result.MarketTokenUsd, false)
	result.UiFeeUsd = UiFee(result.MarketTokenUsd, uiFeeFactor)

	netUsd := new(big.Int).Sub(result.MarketTokenUsd, result.SwapFeeUsd)
	netUsd.Sub(netUsd, result.UiFeeUsd)
	if netUsd.Sign() < 0 {
		netUsd.SetInt64(0)
	}

	longUsd, shortUsd := splitByComposition(pool, snapshot, netUsd)
	result.LongTokenUsd = longUsd
	result.ShortTokenUsd = shortUsd
	result.LongTokenAmount = collateralAmount(snapshot, pool.LongToken, longUsd, true)
	result.ShortTokenAmount = collateralAmount(snapshot, pool.ShortToken, shortUsd, true)
	return result
}

// GetWithdrawalAmountsByCollaterals computes the shares that must be
// redeemed to receive a desired amount of one collateral. The other side is
// paid out in proportion to the pool's composition.
func GetWithdrawalAmountsByCollaterals(pool *model.Pool, snapshot *model.Snapshot, longTokenAmount, uiFeeFactor *big.Int) DepositWithdrawalAmounts {
	result := newAmounts(WithdrawalByCollaterals)

	result.LongTokenAmount = orZero(longTokenAmount)
	result.LongTokenUsd = collateralUsd(snapshot, pool.LongToken, longTokenAmount, true)

	longPoolUsd := pricing.PoolUsdWithoutPnl(pool, snapshot, true, false)
	shortPoolUsd := pricing.PoolUsdWithoutPnl(pool, snapshot, false, false)
	totalPoolUsd := new(big.Int).Add(longPoolUsd, shortPoolUsd)

	netUsd := new(big.Int).Set(result.LongTokenUsd)
	if longPoolUsd.Sign() > 0 {
		netUsd.Mul(result.LongTokenUsd, totalPoolUsd)
		netUsd.Quo(netUsd, longPoolUsd)
	}
	result.ShortTokenUsd = new(big.Int).Sub(netUsd, result.LongTokenUsd)
	result.ShortTokenAmount = collateralAmount(snapshot, pool.ShortToken, result.ShortTokenUsd, true)

	result.SwapFeeUsd = SwapFee(pool, netUsd, false)
	result.UiFeeUsd = UiFee(netUsd, uiFeeFactor)

	grossUsd := new(big.Int).Add(netUsd, result.SwapFeeUsd)
	grossUsd.Add(grossUsd, result.UiFeeUsd)
	result.MarketTokenUsd = grossUsd
	result.MarketTokenAmount = UsdToMarketTokenAmount(pool, grossUsd)
	return result
}

func newAmounts(strategy DepositWithdrawalStrategy) DepositWithdrawalAmounts {
	return DepositWithdrawalAmounts{
		Strategy:          strategy,
		LongTokenAmount:   new(big.Int),
		ShortTokenAmount:  new(big.Int),
		LongTokenUsd:      new(big.Int),
		ShortTokenUsd:     new(big.Int),
		MarketTokenAmount: new(big.Int),
		MarketTokenUsd:    new(big.Int),
		SwapFeeUsd:        new(big.Int),
		UiFeeUsd:          new(big.Int),
	}
}

// splitByComposition divides usd across the two collateral sides in
// proportion to their current USD reserves. An empty pool splits evenly.
func splitByComposition(pool *model.Pool, snapshot *model.Snapshot, usd *big.Int) (*big.Int, *big.Int) {
	longPoolUsd := pricing.PoolUsdWithoutPnl(pool, snapshot, true, false)
	shortPoolUsd := pricing.PoolUsdWithoutPnl(pool, snapshot, false, false)
	totalPoolUsd := new(big.Int).Add(longPoolUsd, shortPoolUsd)

	if totalPoolUsd.Sign() == 0 {
		half := new(big.Int).Div(usd, big.NewInt(2))
		return half, new(big.Int).Sub(usd, half)
	}

	longUsd := new(big.Int).Mul(usd, longPoolUsd)
	longUsd.Quo(longUsd, totalPoolUsd)
	return longUsd, new(big.Int).Sub(usd, longUsd)
}

func collateralUsd(snapshot *model.Snapshot, tokenAddr common.Address, amount *big.Int, maximize bool) *big.Int {
	token, ok := snapshot.TokenByAddress(tokenAddr)
	if !ok {
		return new(big.Int)
	}
	price, ok := snapshot.PriceByToken(tokenAddr)
	if !ok {
		return new(big.Int)
	}
	return pricing.TokenAmountToUsd(amount, token.Decimals, price.PickPrice(maximize))
}

func collateralAmount(snapshot *model.Snapshot, tokenAddr common.Address, usd *big.Int, maximize bool) *big.Int {
	token, ok := snapshot.TokenByAddress(tokenAddr)
	if !ok {
		return new(big.Int)
	}
	price, ok := snapshot.PriceByToken(tokenAddr)
	if !ok {
		return new(big.Int)
	}
	return pricing.UsdToTokenAmount(usd, token.Decimals, price.PickPrice(maximize))
}
