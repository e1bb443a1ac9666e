// Package trade composes the routing, fee, and impact math into the quote
// operations the CLI and HTTP API expose.
package trade

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/fees"
	"tradeRouter/internal/impact"
	"tradeRouter/internal/model"
	"tradeRouter/internal/router"
)

// SwapQuoteParams describe a swap quote request.
type SwapQuoteParams struct {
	TokenIn     common.Address
	TokenOut    common.Address
	UsdIn       *big.Int
	UiFeeFactor *big.Int
	MaxHops     int
	// PreferLiquidity picks the deepest route instead of the best-output one.
	PreferLiquidity bool
}

// SwapQuoteResult is a routed swap quote.
type SwapQuoteResult struct {
	Route     *model.SwapRoute
	PathStats *model.SwapPathStats
	UiFeeUsd  *big.Int
}

// QuoteSwap routes usdIn from TokenIn to TokenOut and prices the chosen
// path. Returns an error for a same-token request and (nil, nil) when no
// route exists; the caller decides how to surface unroutable pairs.
func QuoteSwap(snapshot *model.Snapshot, p SwapQuoteParams) (*SwapQuoteResult, error) {
	if p.TokenIn == p.TokenOut {
		return nil, fmt.Errorf("token in equals token out")
	}
	if p.UsdIn == nil || p.UsdIn.Sign() <= 0 {
		return nil, fmt.Errorf("usd in must be positive")
	}

	graph := router.BuildGraph(snapshot.Pools)
	routes := router.FindSwapRoutes(graph, snapshot, p.TokenIn, p.TokenOut, p.MaxHops)
	if len(routes) == 0 {
		return nil, nil
	}

	estimator := router.CreateSwapEstimator(snapshot)

	var chosen *model.SwapRoute
	if p.PreferLiquidity {
		chosen = router.PreferredByLiquidity(routes)
	} else {
		chosen, _ = router.BestSwapRoute(routes, p.UsdIn, estimator)
	}
	if chosen == nil {
		return nil, nil
	}

	stats := router.GetSwapPathStats(chosen, p.UsdIn, estimator)
	if stats == nil {
		return nil, nil
	}

	return &SwapQuoteResult{
		Route:     chosen,
		PathStats: stats,
		UiFeeUsd:  fees.UiFee(p.UsdIn, p.UiFeeFactor),
	}, nil
}

// PositionQuoteParams describe a position order quote request.
type PositionQuoteParams struct {
	Market               common.Address
	IsIncrease           bool
	IsLong               bool
	SizeDeltaUsd         *big.Int
	InitialCollateralUsd *big.Int
	CollateralToken      common.Address
	// SwapSteps price the collateral swap into the position's collateral
	// token, when one is needed.
	SwapSteps []model.SwapStats

	Referral    *model.ReferralInfo
	UiFeeFactor *big.Int
	// MaxNegativePriceImpactBps switches to the explicit-bound mode used by
	// limit and trigger orders.
	MaxNegativePriceImpactBps *big.Int

	BorrowFeeUsd  *big.Int
	FundingFeeUsd *big.Int
}

// PositionQuoteResult is a priced position order.
type PositionQuoteResult struct {
	Fees            fees.TradeFees
	PositionFees    fees.PositionFees
	AcceptablePrice impact.AcceptablePriceInfo
	IndexPrice      *big.Int
}

// QuotePosition prices a position change on a market: fee breakdown plus
// acceptable price. Missing market or index price yields an error since a
// position quote is meaningless without them.
func QuotePosition(snapshot *model.Snapshot, p PositionQuoteParams) (*PositionQuoteResult, error) {
	pool, ok := snapshot.PoolByMarket(p.Market)
	if !ok {
		return nil, fmt.Errorf("unknown market %s", p.Market.Hex())
	}
	if pool.IsSpotOnly {
		return nil, fmt.Errorf("market %s is spot only", p.Market.Hex())
	}
	indexPrice, ok := snapshot.PriceByToken(pool.IndexToken)
	if !ok {
		return nil, fmt.Errorf("no price for index token %s", pool.IndexToken.Hex())
	}

	entryPrice := indexPrice.PickPrice(impact.ShouldUseMaxPrice(p.IsIncrease, p.IsLong))

	acceptable := impact.GetAcceptablePriceInfo(pool, snapshot, p.IsIncrease, p.IsLong, entryPrice, p.SizeDeltaUsd, p.MaxNegativePriceImpactBps)

	positionFees := fees.PositionFee(pool, p.SizeDeltaUsd, acceptable.PriceImpactDeltaUsd.Sign() > 0, p.Referral, p.UiFeeFactor)

	tradeFees := fees.GetTradeFees(fees.TradeFeesParams{
		InitialCollateralUsd: p.InitialCollateralUsd,
		SizeDeltaUsd:         p.SizeDeltaUsd,
		SwapSteps:            p.SwapSteps,
		PositionFees:         positionFees,
		BorrowFeeUsd:         p.BorrowFeeUsd,
		FundingFeeUsd:        p.FundingFeeUsd,
		UiFeeFactor:          p.UiFeeFactor,
	})

	return &PositionQuoteResult{
		Fees:            tradeFees,
		PositionFees:    positionFees,
		AcceptablePrice: acceptable,
		IndexPrice:      entryPrice,
	}, nil
}

// SwapQuoteRecord converts a swap quote into storage form.
func SwapQuoteRecord(snapshot *model.Snapshot, chainID uint64, result *SwapQuoteResult) model.QuoteRecord {
	stats := result.PathStats
	path := make([]string, len(stats.SwapPath))
	for i, market := range stats.SwapPath {
		path[i] = market.Hex()
	}
	usdIn := new(big.Int)
	if len(stats.SwapSteps) > 0 {
		usdIn.Set(stats.SwapSteps[0].UsdIn)
	}
	return model.QuoteRecord{
		Kind:           model.QuoteKindSwap,
		ChainID:        chainID,
		BlockNumber:    snapshot.BlockNumber,
		CreatedAt:      time.Now().UTC(),
		TokenIn:        stats.TokenInAddress.Hex(),
		TokenOut:       stats.TokenOutAddress.Hex(),
		UsdIn:          usdIn.String(),
		UsdOut:         stats.UsdOut.String(),
		AmountOut:      stats.AmountOut.String(),
		SwapPath:       path,
		TotalFeeUsd:    stats.TotalSwapFeeUsd.String(),
		PriceImpactUsd: stats.TotalPriceImpactUsd.String(),
	}
}

// PositionQuoteRecord converts a position quote into storage form.
func PositionQuoteRecord(snapshot *model.Snapshot, chainID uint64, p PositionQuoteParams, result *PositionQuoteResult) model.QuoteRecord {
	kind := model.QuoteKindDecrease
	if p.IsIncrease {
		kind = model.QuoteKindIncrease
	}
	return model.QuoteRecord{
		Kind:            kind,
		ChainID:         chainID,
		BlockNumber:     snapshot.BlockNumber,
		CreatedAt:       time.Now().UTC(),
		TokenIn:         p.CollateralToken.Hex(),
		TokenOut:        p.Market.Hex(),
		UsdIn:           orZero(p.InitialCollateralUsd).String(),
		UsdOut:          orZero(p.SizeDeltaUsd).String(),
		AmountOut:       "0",
		SwapPath:        nil,
		TotalFeeUsd:     result.Fees.TotalFees.DeltaUsd.String(),
		PriceImpactUsd:  result.AcceptablePrice.PriceImpactDeltaUsd.String(),
		AcceptablePrice: result.AcceptablePrice.AcceptablePrice.String(),
	}
}

func orZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value
}
