// Package pricing converts between token amounts and USD values. All
// monetary quantities are scaled big integers; conversions in the rest of
// the module go through these functions rather than ad hoc arithmetic.
package pricing

import (
	"math/big"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

// TokenAmountToUsd converts a token amount (scaled by the token's decimals)
// into a USD value (scaled by the USD exponent) at the given price.
// Returns zero when amount or price is missing.
func TokenAmountToUsd(amount *big.Int, tokenDecimals int, price *big.Int) *big.Int {
	if amount == nil || price == nil {
		return new(big.Int)
	}
	usd := new(big.Int).Mul(amount, price)
	return usd.Quo(usd, fixedpoint.Exp10(tokenDecimals))
}

// UsdToTokenAmount converts a USD value into a token amount at the given
// price. Price must be nonzero; a zero price is a caller contract violation.
func UsdToTokenAmount(usd *big.Int, tokenDecimals int, price *big.Int) *big.Int {
	if usd == nil {
		return new(big.Int)
	}
	amount := new(big.Int).Mul(usd, fixedpoint.Exp10(tokenDecimals))
	return amount.Quo(amount, price)
}

// MidPrice returns the floor midpoint of a min/max quote.
func MidPrice(price model.Price) *big.Int {
	return price.Mid()
}

// PoolUsdWithoutPnl values one collateral side of a pool in USD, ignoring
// trader pnl. maximize selects the max side of the quote.
func PoolUsdWithoutPnl(pool *model.Pool, snapshot *model.Snapshot, isLong, maximize bool) *big.Int {
	tokenAddr := pool.ShortToken
	amount := pool.ShortPoolAmount
	if isLong {
		tokenAddr = pool.LongToken
		amount = pool.LongPoolAmount
	}

	token, ok := snapshot.TokenByAddress(tokenAddr)
	if !ok {
		return new(big.Int)
	}
	price, ok := snapshot.PriceByToken(tokenAddr)
	if !ok {
		return new(big.Int)
	}
	return TokenAmountToUsd(amount, token.Decimals, price.PickPrice(maximize))
}
