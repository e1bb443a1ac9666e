package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "router",
		Short:        "Perp DEX trade math and swap routing",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Refresh a market snapshot from chain state",
		RunE:  runFetch,
	}

	fetchCmd.Flags().String("rpc", "", "EVM RPC URL")
	fetchCmd.Flags().String("markets", "", "base snapshot JSON with market and feed addresses")
	fetchCmd.Flags().String("out", "./data/snapshot.json", "output snapshot path")
	fetchCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	fetchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	fetchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(fetchCmd)

	routeCmd := &cobra.Command{
		Use:   "route",
		Short: "Find and price the best swap route",
		RunE:  runRoute,
	}

	routeCmd.Flags().String("snapshot", "./data/snapshot.json", "snapshot JSON path")
	routeCmd.Flags().String("token-in", "", "input token address")
	routeCmd.Flags().String("token-out", "", "output token address")
	routeCmd.Flags().String("usd-in", "", "swap size in USD (e.g. 1000 or 1000.50)")
	routeCmd.Flags().Int("max-hops", 3, "maximum pools per route")
	routeCmd.Flags().Bool("prefer-liquidity", false, "pick deepest route instead of best output")
	routeCmd.Flags().Int64("ui-fee-bps", 0, "UI fee in basis points")
	routeCmd.Flags().String("out", "", "optional quote JSONL path")
	routeCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for quote persistence")
	routeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(routeCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a position order on a market",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("snapshot", "./data/snapshot.json", "snapshot JSON path")
	quoteCmd.Flags().String("market", "", "market token address")
	quoteCmd.Flags().Bool("long", true, "long side")
	quoteCmd.Flags().Bool("increase", true, "increase (false for decrease)")
	quoteCmd.Flags().String("size-usd", "", "position size delta in USD")
	quoteCmd.Flags().String("collateral-usd", "", "initial collateral in USD")
	quoteCmd.Flags().String("collateral-token", "", "collateral token address")
	quoteCmd.Flags().Int64("max-negative-impact-bps", 0, "explicit negative impact bound in bps (limit/trigger orders)")
	quoteCmd.Flags().Int64("ui-fee-bps", 0, "UI fee in basis points")
	quoteCmd.Flags().String("fee-token", "", "network fee token address for execution fee estimate")
	quoteCmd.Flags().String("gas-price", "", "gas price in wei for execution fee estimate")
	quoteCmd.Flags().String("out", "", "optional quote JSONL path")
	quoteCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for quote persistence")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve quotes over HTTP with periodic snapshot refresh",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().String("snapshot", "./data/snapshot.json", "snapshot JSON path")
	serveCmd.Flags().String("markets", "", "base snapshot JSON (defaults to --snapshot)")
	serveCmd.Flags().String("rpc", "", "EVM RPC URL (enables refresh)")
	serveCmd.Flags().Duration("refresh-interval", time.Minute, "snapshot refresh interval")
	serveCmd.Flags().String("state-file", "", "optional refresh state file")
	serveCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	serveCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
