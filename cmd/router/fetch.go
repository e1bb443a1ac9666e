package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tradeRouter/internal/chain"
	"tradeRouter/internal/config"
	"tradeRouter/internal/snapshot"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.MarketsFile == "" {
		return fmt.Errorf("markets file is required")
	}

	base, err := snapshot.LoadDocument(cfg.MarketsFile)
	if err != nil {
		return err
	}
	if len(base.Pools) == 0 {
		return fmt.Errorf("markets file has no pools")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	reader := chain.NewReader(chain.ReaderConfig{
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, logger)

	logger.Info("fetch start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("markets", cfg.MarketsFile),
		zap.Int("pools", len(base.Pools)),
		zap.String("out", cfg.Out),
	)

	doc, err := reader.Refresh(ctx, base)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	// Decode validates the refreshed document before it is written.
	if _, err := snapshot.Decode(doc); err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}

	if err := snapshot.SaveDocument(cfg.Out, doc); err != nil {
		return err
	}

	logger.Info("fetch done",
		zap.Uint64("block", doc.BlockNumber),
		zap.Int("pools", len(doc.Pools)),
		zap.Int("prices", len(doc.Prices)),
	)
	return nil
}
