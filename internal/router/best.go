package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/model"
)

// BestSwapRoute folds the estimator across each candidate route's hops
// (each hop's output funds the next) and returns the route with the
// greatest final usdOut, or nil when no candidate is estimable.
func BestSwapRoute(routes []model.SwapRoute, usdIn *big.Int, estimate SwapEstimator) (*model.SwapRoute, *big.Int) {
	var best *model.SwapRoute
	var bestUsdOut *big.Int

	for i := range routes {
		usdOut, ok := estimateRoute(&routes[i], usdIn, estimate)
		if !ok {
			continue
		}
		if bestUsdOut == nil || usdOut.Cmp(bestUsdOut) > 0 {
			best = &routes[i]
			bestUsdOut = usdOut
		}
	}
	return best, bestUsdOut
}

// GetSwapPathStats produces per-hop stats for a chosen route, for fee
// breakdowns and order construction. Returns nil when a hop cannot be
// priced.
func GetSwapPathStats(route *model.SwapRoute, usdIn *big.Int, estimate SwapEstimator) *model.SwapPathStats {
	if route == nil || len(route.Path) == 0 {
		return nil
	}

	steps := make([]model.SwapStats, 0, len(route.Path))
	totalFeeUsd := new(big.Int)
	totalImpactUsd := new(big.Int)

	tokenIn := route.From
	hopUsd := new(big.Int).Set(usdIn)
	var amountOut *big.Int

	for _, market := range route.Path {
		stats, ok := estimate(market, tokenIn, hopUsd)
		if !ok {
			return nil
		}
		steps = append(steps, stats)
		totalFeeUsd.Add(totalFeeUsd, stats.SwapFeeUsd)
		totalImpactUsd.Add(totalImpactUsd, stats.PriceImpactDeltaUsd)
		tokenIn = stats.TokenOutAddress
		hopUsd = stats.UsdOut
		amountOut = stats.AmountOut
	}

	if tokenIn != route.To {
		return nil
	}

	return &model.SwapPathStats{
		SwapSteps:           steps,
		SwapPath:            append([]common.Address(nil), route.Path...),
		TokenInAddress:      route.From,
		TokenOutAddress:     route.To,
		UsdOut:              hopUsd,
		AmountOut:           amountOut,
		TotalSwapFeeUsd:     totalFeeUsd,
		TotalPriceImpactUsd: totalImpactUsd,
	}
}

func estimateRoute(route *model.SwapRoute, usdIn *big.Int, estimate SwapEstimator) (*big.Int, bool) {
	tokenIn := route.From
	hopUsd := new(big.Int).Set(usdIn)
	for _, market := range route.Path {
		stats, ok := estimate(market, tokenIn, hopUsd)
		if !ok {
			return nil, false
		}
		tokenIn = stats.TokenOutAddress
		hopUsd = stats.UsdOut
	}
	if tokenIn != route.To {
		return nil, false
	}
	return hopUsd, true
}
