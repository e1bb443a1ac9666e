package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tradeRouter/internal/api"
	"tradeRouter/internal/chain"
	"tradeRouter/internal/config"
	"tradeRouter/internal/snapshot"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	base, err := snapshot.LoadDocument(cfg.SnapshotPath)
	if err != nil {
		return err
	}
	snap, err := snapshot.Decode(base)
	if err != nil {
		return err
	}
	holder := api.NewSnapshotHolder(snap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var chainID uint64
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		id, err := chainClient.ChainID(ctx)
		if err != nil {
			return fmt.Errorf("chain id: %w", err)
		}
		chainID = id.Uint64()

		reader := chain.NewReader(chain.ReaderConfig{
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
		}, chainClient, logger)

		refreshBase := base
		if cfg.MarketsFile != "" {
			refreshBase, err = snapshot.LoadDocument(cfg.MarketsFile)
			if err != nil {
				return err
			}
		}

		state := snapshot.NewStateStore(cfg.StateFile, cfg.StateFile != "")
		go refreshLoop(ctx, cfg, reader, refreshBase, holder, state, logger)
	} else {
		logger.Warn("no rpc configured, serving static snapshot",
			zap.Uint64("block", snap.BlockNumber))
	}

	server := api.NewServer(cfg.Listen, holder, chainID, logger)
	return server.Run(ctx)
}

// refreshLoop periodically re-reads chain state and swaps the decoded
// snapshot into the holder. A failed refresh keeps the previous snapshot.
func refreshLoop(ctx context.Context, cfg config.ServeConfig, reader *chain.Reader, base *snapshot.Document, holder *api.SnapshotHolder, state *snapshot.StateStore, logger *zap.Logger) {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		doc, err := reader.Refresh(ctx, base)
		if err != nil {
			logger.Warn("snapshot refresh failed", zap.Error(err))
			continue
		}
		snap, err := snapshot.Decode(doc)
		if err != nil {
			logger.Warn("snapshot decode failed", zap.Error(err))
			continue
		}

		holder.Set(snap)

		if err := snapshot.SaveDocument(cfg.SnapshotPath, doc); err != nil {
			logger.Warn("snapshot save failed", zap.Error(err))
		}
		if err := state.Save(doc.BlockNumber); err != nil {
			logger.Warn("state save failed", zap.Error(err))
		}

		logger.Info("snapshot refreshed",
			zap.Uint64("block", doc.BlockNumber),
			zap.Int("pools", len(doc.Pools)),
		)
	}
}
