package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// newViper builds the merged view of config file, environment, and flags
// shared by every subcommand loader.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("ROUTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

// FetchConfig holds configuration for snapshot fetching.
type FetchConfig struct {
	RPCURL       string
	MarketsFile  string
	Out          string
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadFetch merges config file, environment variables, and flags.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":           "./data/snapshot.json",
		"max-retries":   5,
		"retry-backoff": 500 * time.Millisecond,
		"log-level":     "info",
	})
	if err != nil {
		return FetchConfig{}, err
	}

	return FetchConfig{
		RPCURL:       v.GetString("rpc"),
		MarketsFile:  v.GetString("markets"),
		Out:          v.GetString("out"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}

// RouteConfig holds configuration for swap routing.
type RouteConfig struct {
	SnapshotPath    string
	TokenIn         string
	TokenOut        string
	UsdIn           string
	MaxHops         int
	PreferLiquidity bool
	UiFeeBps        int64
	Out             string
	PGDSN           string
	LogLevel        string
}

// LoadRoute merges config file, environment variables, and flags.
func LoadRoute(cfgFile string, flags *pflag.FlagSet) (RouteConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"snapshot":  "./data/snapshot.json",
		"max-hops":  3,
		"log-level": "info",
	})
	if err != nil {
		return RouteConfig{}, err
	}

	return RouteConfig{
		SnapshotPath:    v.GetString("snapshot"),
		TokenIn:         v.GetString("token-in"),
		TokenOut:        v.GetString("token-out"),
		UsdIn:           v.GetString("usd-in"),
		MaxHops:         v.GetInt("max-hops"),
		PreferLiquidity: v.GetBool("prefer-liquidity"),
		UiFeeBps:        v.GetInt64("ui-fee-bps"),
		Out:             v.GetString("out"),
		PGDSN:           v.GetString("pg-dsn"),
		LogLevel:        v.GetString("log-level"),
	}, nil
}

// QuoteConfig holds configuration for position quoting.
type QuoteConfig struct {
	SnapshotPath         string
	Market               string
	IsLong               bool
	IsIncrease           bool
	SizeUsd              string
	CollateralUsd        string
	CollateralToken      string
	MaxNegativeImpactBps int64
	UiFeeBps             int64
	FeeToken             string
	GasPrice             string
	Out                  string
	PGDSN                string
	LogLevel             string
}

// LoadQuote merges config file, environment variables, and flags.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"snapshot":  "./data/snapshot.json",
		"increase":  true,
		"log-level": "info",
	})
	if err != nil {
		return QuoteConfig{}, err
	}

	return QuoteConfig{
		SnapshotPath:         v.GetString("snapshot"),
		Market:               v.GetString("market"),
		IsLong:               v.GetBool("long"),
		IsIncrease:           v.GetBool("increase"),
		SizeUsd:              v.GetString("size-usd"),
		CollateralUsd:        v.GetString("collateral-usd"),
		CollateralToken:      v.GetString("collateral-token"),
		MaxNegativeImpactBps: v.GetInt64("max-negative-impact-bps"),
		UiFeeBps:             v.GetInt64("ui-fee-bps"),
		FeeToken:             v.GetString("fee-token"),
		GasPrice:             v.GetString("gas-price"),
		Out:                  v.GetString("out"),
		PGDSN:                v.GetString("pg-dsn"),
		LogLevel:             v.GetString("log-level"),
	}, nil
}

// ServeConfig holds configuration for the HTTP quote server.
type ServeConfig struct {
	Listen          string
	SnapshotPath    string
	MarketsFile     string
	RPCURL          string
	RefreshInterval time.Duration
	StateFile       string
	MaxRetries      int
	RetryBackoff    time.Duration
	LogLevel        string
}

// LoadServe merges config file, environment variables, and flags.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"listen":           ":8080",
		"snapshot":         "./data/snapshot.json",
		"refresh-interval": time.Minute,
		"max-retries":      5,
		"retry-backoff":    500 * time.Millisecond,
		"log-level":        "info",
	})
	if err != nil {
		return ServeConfig{}, err
	}

	return ServeConfig{
		Listen:          v.GetString("listen"),
		SnapshotPath:    v.GetString("snapshot"),
		MarketsFile:     v.GetString("markets"),
		RPCURL:          v.GetString("rpc"),
		RefreshInterval: v.GetDuration("refresh-interval"),
		StateFile:       v.GetString("state-file"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		LogLevel:        v.GetString("log-level"),
	}, nil
}
