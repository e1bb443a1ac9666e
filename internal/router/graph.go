// Package router discovers and scores multi-hop swap paths across pools.
// The router is greedy and non-backtracking: it folds a per-hop estimator
// over each candidate path and picks the best final output. It does not
// split a trade across paths or re-rank mid-path; downstream consumers
// depend on this exact behavior.
package router

import (
	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/model"
)

// MarketEdge connects a pool's two collateral tokens.
type MarketEdge struct {
	Market common.Address
	From   common.Address
	To     common.Address
}

// MarketGraph is an undirected graph of swappable token pairs. Nodes are
// token addresses; each enabled pool contributes an edge between its long
// and short collateral tokens.
type MarketGraph struct {
	Adjacency map[common.Address][]MarketEdge
}

// BuildGraph constructs the market graph from the active pool set. Disabled
// pools and single-collateral pools contribute no edges.
func BuildGraph(pools []*model.Pool) *MarketGraph {
	graph := &MarketGraph{
		Adjacency: make(map[common.Address][]MarketEdge),
	}
	for _, pool := range pools {
		if pool.IsDisabled {
			continue
		}
		if pool.IsSameCollaterals || pool.LongToken == pool.ShortToken {
			continue
		}
		graph.Adjacency[pool.LongToken] = append(graph.Adjacency[pool.LongToken], MarketEdge{
			Market: pool.MarketToken,
			From:   pool.LongToken,
			To:     pool.ShortToken,
		})
		graph.Adjacency[pool.ShortToken] = append(graph.Adjacency[pool.ShortToken], MarketEdge{
			Market: pool.MarketToken,
			From:   pool.ShortToken,
			To:     pool.LongToken,
		})
	}
	return graph
}
