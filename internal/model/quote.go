package model

import "time"

// QuoteRecord is a computed quote in storage form. Big quantities are
// decimal strings so JSON and SQL round-trip them without precision loss.
type QuoteRecord struct {
	Kind            string    `json:"kind"`
	ChainID         uint64    `json:"chain_id"`
	BlockNumber     uint64    `json:"block_number"`
	CreatedAt       time.Time `json:"created_at"`
	TokenIn         string    `json:"token_in"`
	TokenOut        string    `json:"token_out"`
	UsdIn           string    `json:"usd_in"`
	UsdOut          string    `json:"usd_out"`
	AmountOut       string    `json:"amount_out"`
	SwapPath        []string  `json:"swap_path"`
	TotalFeeUsd     string    `json:"total_fee_usd"`
	PriceImpactUsd  string    `json:"price_impact_usd"`
	AcceptablePrice string    `json:"acceptable_price,omitempty"`
}

// Quote kinds.
const (
	QuoteKindSwap     = "swap"
	QuoteKindIncrease = "increase"
	QuoteKindDecrease = "decrease"
)
