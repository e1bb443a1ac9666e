package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Pool is a point-in-time snapshot of a market's on-chain state. Core
// computations treat it as immutable; it is only replaced wholesale by a
// snapshot refresh.
type Pool struct {
	MarketToken common.Address
	IndexToken  common.Address
	LongToken   common.Address
	ShortToken  common.Address

	IsDisabled        bool
	IsSpotOnly        bool
	IsSameCollaterals bool

	LongPoolAmount  *big.Int
	ShortPoolAmount *big.Int

	// Fee factors, Precision-scaled. The positive/negative pair is selected
	// by the sign of the price impact of the trade being charged.
	PositionFeeFactorPositive *big.Int
	PositionFeeFactorNegative *big.Int
	SwapFeeFactorPositive     *big.Int
	SwapFeeFactorNegative     *big.Int

	// Swap price impact configuration. Exponents are whole powers.
	SwapImpactFactorPositive  *big.Int
	SwapImpactFactorNegative  *big.Int
	SwapImpactExponent        int
	SwapImpactPoolAmountLong  *big.Int
	SwapImpactPoolAmountShort *big.Int

	// Position price impact configuration.
	PositionImpactFactorPositive    *big.Int
	PositionImpactFactorNegative    *big.Int
	PositionImpactExponent          int
	PositionImpactPoolAmount        *big.Int
	MaxPositionImpactFactorPositive *big.Int
	MaxPositionImpactFactorNegative *big.Int

	// Open interest, USD-scaled.
	LongInterestUsd      *big.Int
	ShortInterestUsd     *big.Int
	MaxOpenInterestLong  *big.Int
	MaxOpenInterestShort *big.Int

	// Trader pnl variants as reported by the reader contract.
	PnlLongMax  *big.Int
	PnlLongMin  *big.Int
	PnlShortMax *big.Int
	PnlShortMin *big.Int

	MaxPnlFactorForTraders *big.Int

	// Market-token (share) pricing inputs.
	PoolValueUsd      *big.Int
	MarketTokenSupply *big.Int
}

// HasCollateral reports whether token is one of the pool's collaterals.
func (p *Pool) HasCollateral(token common.Address) bool {
	return token == p.LongToken || token == p.ShortToken
}

// IsLongCollateral reports whether token is the long-side collateral.
func (p *Pool) IsLongCollateral(token common.Address) bool {
	return token == p.LongToken
}

// OppositeCollateral returns the other collateral for a given collateral
// token, and false if token is not a collateral of this pool.
func (p *Pool) OppositeCollateral(token common.Address) (common.Address, bool) {
	switch token {
	case p.LongToken:
		return p.ShortToken, true
	case p.ShortToken:
		return p.LongToken, true
	default:
		return common.Address{}, false
	}
}

// PoolAmount returns the reserve amount for the given collateral token.
func (p *Pool) PoolAmount(token common.Address) *big.Int {
	if p.IsLongCollateral(token) {
		return p.LongPoolAmount
	}
	return p.ShortPoolAmount
}

// SwapImpactPoolAmount returns the impact-pool reserve for the side holding
// the given collateral token.
func (p *Pool) SwapImpactPoolAmount(token common.Address) *big.Int {
	if p.IsLongCollateral(token) {
		return p.SwapImpactPoolAmountLong
	}
	return p.SwapImpactPoolAmountShort
}

// Pnl returns the stored trader pnl variant for a direction. maximize picks
// the max-price valuation.
func (p *Pool) Pnl(isLong, maximize bool) *big.Int {
	if isLong {
		if maximize {
			return p.PnlLongMax
		}
		return p.PnlLongMin
	}
	if maximize {
		return p.PnlShortMax
	}
	return p.PnlShortMin
}

// OpenInterestUsd returns open interest for a direction.
func (p *Pool) OpenInterestUsd(isLong bool) *big.Int {
	if isLong {
		return p.LongInterestUsd
	}
	return p.ShortInterestUsd
}
