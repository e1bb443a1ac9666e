package model

import "github.com/ethereum/go-ethereum/common"

// Token captures immutable token reference data.
type Token struct {
	Address  common.Address
	Decimals int
	Symbol   string
}
