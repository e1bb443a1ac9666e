package model

import "math/big"

// Price is a min/max USD quote scaled by the fixed USD exponent.
// Invariant: Min <= Max.
type Price struct {
	Min *big.Int
	Max *big.Int
}

// Mid returns the floor midpoint of the quote.
func (p Price) Mid() *big.Int {
	sum := new(big.Int).Add(p.Min, p.Max)
	return sum.Div(sum, big.NewInt(2))
}

// IsZero reports whether either side of the quote is unset or zero.
func (p Price) IsZero() bool {
	return p.Min == nil || p.Max == nil || p.Min.Sign() == 0 || p.Max.Sign() == 0
}

// PickPrice selects the max side when maximize is true, otherwise the min side.
func (p Price) PickPrice(maximize bool) *big.Int {
	if maximize {
		return p.Max
	}
	return p.Min
}
