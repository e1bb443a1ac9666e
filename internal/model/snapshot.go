package model

import "github.com/ethereum/go-ethereum/common"

// Snapshot bundles the pool, token, and price state the core computes over.
// Callers are responsible for supplying an internally consistent snapshot
// (pools and prices from the same refresh cycle); the core performs no
// staleness checking of its own.
type Snapshot struct {
	BlockNumber uint64
	Timestamp   uint64
	Pools       []*Pool
	Tokens      map[common.Address]Token
	Prices      map[common.Address]Price
	GasLimits   GasLimitsConfig
}

// PoolByMarket returns the pool keyed by its market token.
func (s *Snapshot) PoolByMarket(market common.Address) (*Pool, bool) {
	for _, pool := range s.Pools {
		if pool.MarketToken == market {
			return pool, true
		}
	}
	return nil, false
}

// TokenByAddress returns token reference data.
func (s *Snapshot) TokenByAddress(addr common.Address) (Token, bool) {
	token, ok := s.Tokens[addr]
	return token, ok
}

// PriceByToken returns the current quote for a token.
func (s *Snapshot) PriceByToken(addr common.Address) (Price, bool) {
	price, ok := s.Prices[addr]
	if !ok || price.IsZero() {
		return Price{}, false
	}
	return price, true
}
