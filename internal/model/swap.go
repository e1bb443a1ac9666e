package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SwapStats describes the outcome of a single swap hop.
type SwapStats struct {
	MarketAddress      common.Address
	TokenInAddress     common.Address
	TokenOutAddress    common.Address
	UsdIn              *big.Int
	UsdOut             *big.Int
	AmountIn           *big.Int
	AmountOut          *big.Int
	SwapFeeUsd         *big.Int
	PriceImpactDeltaUsd *big.Int
	CappedDiffUsd      *big.Int
}

// SwapRoute is an ordered pool path from a source token to a destination
// token. Liquidity is the minimum swappable USD across its hops; routes are
// rebuilt per routing query and never cached across price updates.
type SwapRoute struct {
	Path      []common.Address
	From      common.Address
	To        common.Address
	Liquidity *big.Int
}

// SwapPathStats aggregates per-hop stats for a full route.
type SwapPathStats struct {
	SwapSteps           []SwapStats
	SwapPath            []common.Address
	TokenInAddress      common.Address
	TokenOutAddress     common.Address
	UsdOut              *big.Int
	AmountOut           *big.Int
	TotalSwapFeeUsd     *big.Int
	TotalPriceImpactUsd *big.Int
}
