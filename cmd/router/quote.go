package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tradeRouter/internal/config"
	"tradeRouter/internal/fees"
	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
	"tradeRouter/internal/snapshot"
	"tradeRouter/internal/trade"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	market, err := parseAddressFlag(cfg.Market, "market")
	if err != nil {
		return err
	}
	if cfg.SizeUsd == "" {
		return fmt.Errorf("size-usd is required")
	}
	sizeDeltaUsd, err := fixedpoint.ExpandDecimals(cfg.SizeUsd, fixedpoint.USDDecimals)
	if err != nil {
		return fmt.Errorf("parse size-usd: %w", err)
	}
	if sizeDeltaUsd.Sign() < 0 {
		return fmt.Errorf("size-usd must not be negative")
	}

	snap, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		return err
	}

	params := trade.PositionQuoteParams{
		Market:       market,
		IsIncrease:   cfg.IsIncrease,
		IsLong:       cfg.IsLong,
		SizeDeltaUsd: sizeDeltaUsd,
	}
	if cfg.CollateralUsd != "" {
		params.InitialCollateralUsd, err = fixedpoint.ExpandDecimals(cfg.CollateralUsd, fixedpoint.USDDecimals)
		if err != nil {
			return fmt.Errorf("parse collateral-usd: %w", err)
		}
	}
	if cfg.CollateralToken != "" {
		params.CollateralToken, err = parseAddressFlag(cfg.CollateralToken, "collateral-token")
		if err != nil {
			return err
		}
	}
	if cfg.MaxNegativeImpactBps > 0 {
		params.MaxNegativePriceImpactBps = big.NewInt(cfg.MaxNegativeImpactBps)
	}
	if cfg.UiFeeBps > 0 {
		params.UiFeeFactor = fixedpoint.BasisPointsToFactor(big.NewInt(cfg.UiFeeBps))
	}

	result, err := trade.QuotePosition(snap, params)
	if err != nil {
		return err
	}

	logger.Info("position quoted",
		zap.String("market", market.Hex()),
		zap.Bool("long", cfg.IsLong),
		zap.Bool("increase", cfg.IsIncrease),
		zap.String("acceptable_price", result.AcceptablePrice.AcceptablePrice.String()),
		zap.String("impact_usd", result.AcceptablePrice.PriceImpactDeltaUsd.String()),
		zap.String("total_fee_usd", result.Fees.TotalFees.DeltaUsd.String()),
	)

	record := trade.PositionQuoteRecord(snap, 0, params, result)
	if err := printJSON(record); err != nil {
		return err
	}

	if cfg.FeeToken != "" && cfg.GasPrice != "" {
		if err := printExecutionFee(snap, cfg, logger); err != nil {
			return err
		}
	}

	return persistQuotes(context.Background(), cfg.Out, cfg.PGDSN, []model.QuoteRecord{record}, logger)
}

func printExecutionFee(snap *model.Snapshot, cfg config.QuoteConfig, logger *zap.Logger) error {
	feeTokenAddr, err := parseAddressFlag(cfg.FeeToken, "fee-token")
	if err != nil {
		return err
	}
	feeToken, ok := snap.TokenByAddress(feeTokenAddr)
	if !ok {
		return fmt.Errorf("unknown fee token %s", feeTokenAddr.Hex())
	}
	feeTokenPrice, ok := snap.PriceByToken(feeTokenAddr)
	if !ok {
		return fmt.Errorf("no price for fee token %s", feeTokenAddr.Hex())
	}
	gasPrice, okParse := new(big.Int).SetString(cfg.GasPrice, 10)
	if !okParse || gasPrice.Sign() <= 0 {
		return fmt.Errorf("gas-price must be a positive wei amount")
	}

	gasLimit := fees.EstimateDecreaseOrderGasLimit(snap.GasLimits, 0, 0)
	if cfg.IsIncrease {
		gasLimit = fees.EstimateIncreaseOrderGasLimit(snap.GasLimits, 0, 0)
	}

	executionFee := fees.EstimateExecutionFee(snap.GasLimits, feeToken, feeTokenPrice, gasLimit, gasPrice)
	logger.Info("execution fee",
		zap.Uint64("gas_limit", executionFee.GasLimit),
		zap.String("fee_token_amount", executionFee.FeeTokenAmount.String()),
		zap.String("fee_usd", executionFee.FeeUsd.String()),
	)
	return nil
}
