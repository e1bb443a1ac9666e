// Package snapshot loads and serializes point-in-time market state. All big
// quantities are decimal strings on the wire; parsing converts them to
// big.Int once so the core never touches strings.
package snapshot

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

// Document is the wire form of a market snapshot.
type Document struct {
	BlockNumber uint64        `json:"block_number"`
	Timestamp   uint64        `json:"timestamp"`
	Tokens      []TokenRecord `json:"tokens"`
	Prices      []PriceRecord `json:"prices"`
	Pools       []PoolRecord  `json:"pools"`
	GasLimits   GasRecord     `json:"gas_limits"`
}

// TokenRecord is token reference data on the wire. PriceFeed optionally
// names a Chainlink-style aggregator the reader refreshes quotes from.
type TokenRecord struct {
	Address      string `json:"address"`
	Decimals     int    `json:"decimals"`
	Symbol       string `json:"symbol"`
	PriceFeed    string `json:"price_feed,omitempty"`
	FeedDecimals int    `json:"feed_decimals,omitempty"`
}

// PriceRecord is a min/max USD quote on the wire.
type PriceRecord struct {
	Token string `json:"token"`
	Min   string `json:"min"`
	Max   string `json:"max"`
}

// PoolRecord is a pool snapshot on the wire. Impact exponents are
// Precision-scaled factors and must be whole powers.
type PoolRecord struct {
	MarketToken string `json:"market_token"`
	IndexToken  string `json:"index_token"`
	LongToken   string `json:"long_token"`
	ShortToken  string `json:"short_token"`

	IsDisabled        bool `json:"is_disabled"`
	IsSpotOnly        bool `json:"is_spot_only"`
	IsSameCollaterals bool `json:"is_same_collaterals"`

	LongPoolAmount  string `json:"long_pool_amount"`
	ShortPoolAmount string `json:"short_pool_amount"`

	PositionFeeFactorPositive string `json:"position_fee_factor_positive"`
	PositionFeeFactorNegative string `json:"position_fee_factor_negative"`
	SwapFeeFactorPositive     string `json:"swap_fee_factor_positive"`
	SwapFeeFactorNegative     string `json:"swap_fee_factor_negative"`

	SwapImpactFactorPositive  string `json:"swap_impact_factor_positive"`
	SwapImpactFactorNegative  string `json:"swap_impact_factor_negative"`
	SwapImpactExponentFactor  string `json:"swap_impact_exponent_factor"`
	SwapImpactPoolAmountLong  string `json:"swap_impact_pool_amount_long"`
	SwapImpactPoolAmountShort string `json:"swap_impact_pool_amount_short"`

	PositionImpactFactorPositive    string `json:"position_impact_factor_positive"`
	PositionImpactFactorNegative    string `json:"position_impact_factor_negative"`
	PositionImpactExponentFactor    string `json:"position_impact_exponent_factor"`
	PositionImpactPoolAmount        string `json:"position_impact_pool_amount"`
	MaxPositionImpactFactorPositive string `json:"max_position_impact_factor_positive"`
	MaxPositionImpactFactorNegative string `json:"max_position_impact_factor_negative"`

	LongInterestUsd      string `json:"long_interest_usd"`
	ShortInterestUsd     string `json:"short_interest_usd"`
	MaxOpenInterestLong  string `json:"max_open_interest_long"`
	MaxOpenInterestShort string `json:"max_open_interest_short"`

	PnlLongMax  string `json:"pnl_long_max"`
	PnlLongMin  string `json:"pnl_long_min"`
	PnlShortMax string `json:"pnl_short_max"`
	PnlShortMin string `json:"pnl_short_min"`

	MaxPnlFactorForTraders string `json:"max_pnl_factor_for_traders"`

	PoolValueUsd      string `json:"pool_value_usd"`
	MarketTokenSupply string `json:"market_token_supply"`
}

// GasRecord is the gas-limit configuration on the wire.
type GasRecord struct {
	DepositSingleToken     uint64 `json:"deposit_single_token"`
	DepositMultiToken      uint64 `json:"deposit_multi_token"`
	WithdrawalMultiToken   uint64 `json:"withdrawal_multi_token"`
	IncreaseOrder          uint64 `json:"increase_order"`
	DecreaseOrder          uint64 `json:"decrease_order"`
	SwapOrder              uint64 `json:"swap_order"`
	SingleSwap             uint64 `json:"single_swap"`
	EstimatedFeeBaseGas    uint64 `json:"estimated_fee_base_gas"`
	EstimatedFeeMultiplier string `json:"estimated_fee_multiplier"`
}

// Load reads and decodes a snapshot file.
func Load(path string) (*model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return Decode(&doc)
}

// LoadDocument reads a snapshot file without decoding it, for callers that
// refresh the wire form and write it back out.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &doc, nil
}

// SaveDocument writes a snapshot file atomically via a temp file rename.
func SaveDocument(path string, doc *Document) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Decode converts a wire document into core model types.
func Decode(doc *Document) (*model.Snapshot, error) {
	snap := &model.Snapshot{
		BlockNumber: doc.BlockNumber,
		Timestamp:   doc.Timestamp,
		Tokens:      make(map[common.Address]model.Token, len(doc.Tokens)),
		Prices:      make(map[common.Address]model.Price, len(doc.Prices)),
	}

	for _, record := range doc.Tokens {
		addr, err := parseAddress(record.Address)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", record.Address, err)
		}
		if record.Decimals < 0 {
			return nil, fmt.Errorf("token %s: negative decimals", record.Address)
		}
		snap.Tokens[addr] = model.Token{
			Address:  addr,
			Decimals: record.Decimals,
			Symbol:   record.Symbol,
		}
	}

	for _, record := range doc.Prices {
		addr, err := parseAddress(record.Token)
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", record.Token, err)
		}
		minPrice, err := parseBig(record.Min, "price min")
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", record.Token, err)
		}
		maxPrice, err := parseBig(record.Max, "price max")
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", record.Token, err)
		}
		if minPrice.Cmp(maxPrice) > 0 {
			return nil, fmt.Errorf("price %s: min exceeds max", record.Token)
		}
		snap.Prices[addr] = model.Price{Min: minPrice, Max: maxPrice}
	}

	snap.Pools = make([]*model.Pool, 0, len(doc.Pools))
	for _, record := range doc.Pools {
		pool, err := decodePool(record)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", record.MarketToken, err)
		}
		snap.Pools = append(snap.Pools, pool)
	}

	multiplier, err := parseBig(doc.GasLimits.EstimatedFeeMultiplier, "estimated fee multiplier")
	if err != nil {
		return nil, err
	}
	snap.GasLimits = model.GasLimitsConfig{
		DepositSingleToken:     doc.GasLimits.DepositSingleToken,
		DepositMultiToken:      doc.GasLimits.DepositMultiToken,
		WithdrawalMultiToken:   doc.GasLimits.WithdrawalMultiToken,
		IncreaseOrder:          doc.GasLimits.IncreaseOrder,
		DecreaseOrder:          doc.GasLimits.DecreaseOrder,
		SwapOrder:              doc.GasLimits.SwapOrder,
		SingleSwap:             doc.GasLimits.SingleSwap,
		EstimatedFeeBaseGas:    doc.GasLimits.EstimatedFeeBaseGas,
		EstimatedFeeMultiplier: multiplier,
	}

	return snap, nil
}

func decodePool(record PoolRecord) (*model.Pool, error) {
	pool := &model.Pool{
		IsDisabled:        record.IsDisabled,
		IsSpotOnly:        record.IsSpotOnly,
		IsSameCollaterals: record.IsSameCollaterals,
	}

	var err error
	if pool.MarketToken, err = parseAddress(record.MarketToken); err != nil {
		return nil, err
	}
	if pool.IndexToken, err = parseAddress(record.IndexToken); err != nil {
		return nil, err
	}
	if pool.LongToken, err = parseAddress(record.LongToken); err != nil {
		return nil, err
	}
	if pool.ShortToken, err = parseAddress(record.ShortToken); err != nil {
		return nil, err
	}

	fields := []struct {
		dst  **big.Int
		src  string
		name string
	}{
		{&pool.LongPoolAmount, record.LongPoolAmount, "long_pool_amount"},
		{&pool.ShortPoolAmount, record.ShortPoolAmount, "short_pool_amount"},
		{&pool.PositionFeeFactorPositive, record.PositionFeeFactorPositive, "position_fee_factor_positive"},
		{&pool.PositionFeeFactorNegative, record.PositionFeeFactorNegative, "position_fee_factor_negative"},
		{&pool.SwapFeeFactorPositive, record.SwapFeeFactorPositive, "swap_fee_factor_positive"},
		{&pool.SwapFeeFactorNegative, record.SwapFeeFactorNegative, "swap_fee_factor_negative"},
		{&pool.SwapImpactFactorPositive, record.SwapImpactFactorPositive, "swap_impact_factor_positive"},
		{&pool.SwapImpactFactorNegative, record.SwapImpactFactorNegative, "swap_impact_factor_negative"},
		{&pool.SwapImpactPoolAmountLong, record.SwapImpactPoolAmountLong, "swap_impact_pool_amount_long"},
		{&pool.SwapImpactPoolAmountShort, record.SwapImpactPoolAmountShort, "swap_impact_pool_amount_short"},
		{&pool.PositionImpactFactorPositive, record.PositionImpactFactorPositive, "position_impact_factor_positive"},
		{&pool.PositionImpactFactorNegative, record.PositionImpactFactorNegative, "position_impact_factor_negative"},
		{&pool.PositionImpactPoolAmount, record.PositionImpactPoolAmount, "position_impact_pool_amount"},
		{&pool.MaxPositionImpactFactorPositive, record.MaxPositionImpactFactorPositive, "max_position_impact_factor_positive"},
		{&pool.MaxPositionImpactFactorNegative, record.MaxPositionImpactFactorNegative, "max_position_impact_factor_negative"},
		{&pool.LongInterestUsd, record.LongInterestUsd, "long_interest_usd"},
		{&pool.ShortInterestUsd, record.ShortInterestUsd, "short_interest_usd"},
		{&pool.MaxOpenInterestLong, record.MaxOpenInterestLong, "max_open_interest_long"},
		{&pool.MaxOpenInterestShort, record.MaxOpenInterestShort, "max_open_interest_short"},
		{&pool.PnlLongMax, record.PnlLongMax, "pnl_long_max"},
		{&pool.PnlLongMin, record.PnlLongMin, "pnl_long_min"},
		{&pool.PnlShortMax, record.PnlShortMax, "pnl_short_max"},
		{&pool.PnlShortMin, record.PnlShortMin, "pnl_short_min"},
		{&pool.MaxPnlFactorForTraders, record.MaxPnlFactorForTraders, "max_pnl_factor_for_traders"},
		{&pool.PoolValueUsd, record.PoolValueUsd, "pool_value_usd"},
		{&pool.MarketTokenSupply, record.MarketTokenSupply, "market_token_supply"},
	}
	for _, field := range fields {
		value, err := parseBig(field.src, field.name)
		if err != nil {
			return nil, err
		}
		*field.dst = value
	}

	if pool.SwapImpactExponent, err = parseExponent(record.SwapImpactExponentFactor, "swap_impact_exponent_factor"); err != nil {
		return nil, err
	}
	if pool.PositionImpactExponent, err = parseExponent(record.PositionImpactExponentFactor, "position_impact_exponent_factor"); err != nil {
		return nil, err
	}

	return pool, nil
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid address %q", value)
	}
	return common.HexToAddress(value), nil
}

// parseBig parses a decimal string; empty strings decode to zero so sparse
// snapshots stay valid.
func parseBig(value, name string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s %q", name, value)
	}
	return parsed, nil
}

// parseExponent converts a Precision-scaled exponent factor into a whole
// power. Fractional exponents are rejected; empty defaults to 1.
func parseExponent(value, name string) (int, error) {
	if value == "" {
		return 1, nil
	}
	factor, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	quo, rem := new(big.Int).QuoRem(factor, fixedpoint.Precision, new(big.Int))
	if rem.Sign() != 0 || !quo.IsInt64() || quo.Int64() < 1 || quo.Int64() > 10 {
		return 0, fmt.Errorf("%s must be a whole exponent between 1 and 10", name)
	}
	return int(quo.Int64()), nil
}
