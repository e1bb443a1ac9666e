package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tradeRouter/internal/config"
	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
	"tradeRouter/internal/snapshot"
	"tradeRouter/internal/storage"
	"tradeRouter/internal/storage/postgres"
	"tradeRouter/internal/trade"
)

func runRoute(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRoute(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tokenIn, err := parseAddressFlag(cfg.TokenIn, "token-in")
	if err != nil {
		return err
	}
	tokenOut, err := parseAddressFlag(cfg.TokenOut, "token-out")
	if err != nil {
		return err
	}
	if cfg.UsdIn == "" {
		return fmt.Errorf("usd-in is required")
	}
	usdIn, err := fixedpoint.ExpandDecimals(cfg.UsdIn, fixedpoint.USDDecimals)
	if err != nil {
		return fmt.Errorf("parse usd-in: %w", err)
	}
	if usdIn.Sign() <= 0 {
		return fmt.Errorf("usd-in must be positive")
	}

	snap, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		return err
	}

	var uiFeeFactor *big.Int
	if cfg.UiFeeBps > 0 {
		uiFeeFactor = fixedpoint.BasisPointsToFactor(big.NewInt(cfg.UiFeeBps))
	}

	result, err := trade.QuoteSwap(snap, trade.SwapQuoteParams{
		TokenIn:         tokenIn,
		TokenOut:        tokenOut,
		UsdIn:           usdIn,
		UiFeeFactor:     uiFeeFactor,
		MaxHops:         cfg.MaxHops,
		PreferLiquidity: cfg.PreferLiquidity,
	})
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("no route from %s to %s", tokenIn.Hex(), tokenOut.Hex())
	}

	record := trade.SwapQuoteRecord(snap, 0, result)

	logger.Info("route found",
		zap.Int("hops", len(result.PathStats.SwapSteps)),
		zap.String("usd_out", record.UsdOut),
		zap.String("fee_usd", record.TotalFeeUsd),
		zap.String("impact_usd", record.PriceImpactUsd),
	)

	if err := printJSON(record); err != nil {
		return err
	}

	return persistQuotes(context.Background(), cfg.Out, cfg.PGDSN, []model.QuoteRecord{record}, logger)
}

func parseAddressFlag(value, name string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("%s is required", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s is not a valid address", name)
	}
	return common.HexToAddress(value), nil
}

func printJSON(value interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// persistQuotes appends quote records to the optional JSONL sink and the
// optional Postgres store.
func persistQuotes(ctx context.Context, jsonlPath, pgDSN string, quotes []model.QuoteRecord, logger *zap.Logger) error {
	if jsonlPath != "" {
		sink := storage.NewJsonlStorage(jsonlPath)
		if err := sink.PutQuoteBatch(quotes); err != nil {
			return fmt.Errorf("write quotes: %w", err)
		}
		logger.Info("quotes written", zap.String("out", jsonlPath), zap.Int("count", len(quotes)))
	}

	if pgDSN != "" {
		store, err := postgres.NewStore(ctx, pgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.InsertQuotes(ctx, quotes); err != nil {
			return fmt.Errorf("insert quotes: %w", err)
		}
		logger.Info("quotes inserted", zap.Int("count", len(quotes)))
	}

	return nil
}
