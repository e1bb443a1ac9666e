package router

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/model"
	"tradeRouter/internal/pricing"
)

// DefaultMaxHops bounds path enumeration. Token graphs here are small (tens
// of nodes), so three hops covers every practically routable pair.
const DefaultMaxHops = 3

// FindSwapRoutes enumerates simple paths (no repeated token) from one token
// to another, at most maxHops pools long. Routes carry the minimum hop
// liquidity and come back sorted by that liquidity, descending; ties keep
// discovery order (stable sort). A same-token query yields no routes.
func FindSwapRoutes(graph *MarketGraph, snapshot *model.Snapshot, from, to common.Address, maxHops int) []model.SwapRoute {
	if from == to {
		return nil
	}
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}

	var routes []model.SwapRoute
	visited := map[common.Address]bool{from: true}
	var path []MarketEdge

	var walk func(node common.Address)
	walk = func(node common.Address) {
		if len(path) >= maxHops {
			return
		}
		for _, edge := range graph.Adjacency[node] {
			if visited[edge.To] {
				continue
			}
			path = append(path, edge)
			if edge.To == to {
				routes = append(routes, buildRoute(snapshot, from, to, path))
			} else {
				visited[edge.To] = true
				walk(edge.To)
				visited[edge.To] = false
			}
			path = path[:len(path)-1]
		}
	}
	walk(from)

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Liquidity.Cmp(routes[j].Liquidity) > 0
	})
	return routes
}

// PreferredByLiquidity returns the deepest route, or nil when none exist.
// Routes from FindSwapRoutes are already liquidity-sorted.
func PreferredByLiquidity(routes []model.SwapRoute) *model.SwapRoute {
	if len(routes) == 0 {
		return nil
	}
	return &routes[0]
}

func buildRoute(snapshot *model.Snapshot, from, to common.Address, path []MarketEdge) model.SwapRoute {
	markets := make([]common.Address, len(path))
	var minLiquidity *big.Int
	for i, edge := range path {
		markets[i] = edge.Market
		liquidity := hopLiquidityUsd(snapshot, edge)
		if minLiquidity == nil || liquidity.Cmp(minLiquidity) < 0 {
			minLiquidity = liquidity
		}
	}
	if minLiquidity == nil {
		minLiquidity = new(big.Int)
	}
	return model.SwapRoute{
		Path:      markets,
		From:      from,
		To:        to,
		Liquidity: minLiquidity,
	}
}

// hopLiquidityUsd is the USD value of the out-token reserve: the most the
// hop could pay out.
func hopLiquidityUsd(snapshot *model.Snapshot, edge MarketEdge) *big.Int {
	pool, ok := snapshot.PoolByMarket(edge.Market)
	if !ok {
		return new(big.Int)
	}
	token, ok := snapshot.TokenByAddress(edge.To)
	if !ok {
		return new(big.Int)
	}
	price, ok := snapshot.PriceByToken(edge.To)
	if !ok {
		return new(big.Int)
	}
	return pricing.TokenAmountToUsd(pool.PoolAmount(edge.To), token.Decimals, price.Min)
}
