package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/snapshot"
)

const readerABIJSON = `[
  {"inputs": [{"internalType": "address", "name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "latestAnswer", "outputs": [{"internalType": "int256", "name": "", "type": "int256"}], "stateMutability": "view", "type": "function"}
]`

var (
	readerABI     abi.ABI
	readerABIOnce sync.Once
	readerABIErr  error
)

func getReaderABI() (abi.ABI, error) {
	readerABIOnce.Do(func() {
		readerABI, readerABIErr = abi.JSON(strings.NewReader(readerABIJSON))
	})
	return readerABI, readerABIErr
}

// ReaderConfig controls snapshot refresh behavior.
type ReaderConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// Reader refreshes the dynamic fields of a snapshot document from chain
// state: pool reserve balances via ERC20 balanceOf and token quotes via
// aggregator latestAnswer. Static pool configuration is taken from the base
// document as-is.
type Reader struct {
	cfg    ReaderConfig
	client *Client
	logger *zap.Logger
}

func NewReader(cfg ReaderConfig, client *Client, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{cfg: cfg, client: client, logger: logger}
}

// Refresh returns a copy of base with reserve amounts, prices, block number,
// and timestamp updated from the latest chain state.
func (r *Reader) Refresh(ctx context.Context, base *snapshot.Document) (*snapshot.Document, error) {
	if r.client == nil {
		return nil, fmt.Errorf("chain client is nil")
	}

	blockNumber, err := r.client.LatestBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest block: %w", err)
	}
	header, err := r.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return nil, fmt.Errorf("get header %d: %w", blockNumber, err)
	}

	doc := *base
	doc.BlockNumber = blockNumber
	doc.Timestamp = header.Time
	doc.Pools = append([]snapshot.PoolRecord(nil), base.Pools...)
	doc.Prices = make([]snapshot.PriceRecord, 0, len(base.Tokens))

	for _, token := range base.Tokens {
		if token.PriceFeed == "" {
			continue
		}
		price, err := r.fetchFeedPrice(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("fetch price for %s: %w", token.Symbol, err)
		}
		doc.Prices = append(doc.Prices, price)
	}

	for i := range doc.Pools {
		if err := r.refreshPoolAmounts(ctx, &doc.Pools[i]); err != nil {
			return nil, fmt.Errorf("refresh pool %s: %w", doc.Pools[i].MarketToken, err)
		}
	}

	r.logger.Info("snapshot refreshed",
		zap.Uint64("block", blockNumber),
		zap.Int("pools", len(doc.Pools)),
		zap.Int("prices", len(doc.Prices)),
	)
	return &doc, nil
}

func (r *Reader) refreshPoolAmounts(ctx context.Context, pool *snapshot.PoolRecord) error {
	if !common.IsHexAddress(pool.MarketToken) || !common.IsHexAddress(pool.LongToken) || !common.IsHexAddress(pool.ShortToken) {
		return fmt.Errorf("invalid address")
	}
	market := common.HexToAddress(pool.MarketToken)

	longAmount, err := r.balanceOfWithRetry(ctx, common.HexToAddress(pool.LongToken), market)
	if err != nil {
		return err
	}
	shortAmount, err := r.balanceOfWithRetry(ctx, common.HexToAddress(pool.ShortToken), market)
	if err != nil {
		return err
	}

	pool.LongPoolAmount = longAmount.String()
	pool.ShortPoolAmount = shortAmount.String()
	return nil
}

// fetchFeedPrice reads the aggregator answer and rescales it to the USD
// exponent. The same answer fills both sides of the quote; feeds expose no
// spread.
func (r *Reader) fetchFeedPrice(ctx context.Context, token snapshot.TokenRecord) (snapshot.PriceRecord, error) {
	if !common.IsHexAddress(token.PriceFeed) {
		return snapshot.PriceRecord{}, fmt.Errorf("invalid feed address %q", token.PriceFeed)
	}

	answer, err := r.latestAnswerWithRetry(ctx, common.HexToAddress(token.PriceFeed))
	if err != nil {
		return snapshot.PriceRecord{}, err
	}
	if answer.Sign() <= 0 {
		return snapshot.PriceRecord{}, fmt.Errorf("non-positive feed answer %s", answer)
	}

	// Feed answers are per whole token at the feed's decimals; the USD
	// quote is per whole token at the USD exponent.
	scaled := new(big.Int).Set(answer)
	switch {
	case fixedpoint.USDDecimals > token.FeedDecimals:
		scaled.Mul(scaled, fixedpoint.Exp10(fixedpoint.USDDecimals-token.FeedDecimals))
	case fixedpoint.USDDecimals < token.FeedDecimals:
		scaled.Quo(scaled, fixedpoint.Exp10(token.FeedDecimals-fixedpoint.USDDecimals))
	}

	return snapshot.PriceRecord{
		Token: token.Address,
		Min:   scaled.String(),
		Max:   scaled.String(),
	}, nil
}

func (r *Reader) balanceOfWithRetry(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		balance, err = r.balanceOf(ctx, token, owner)
		if err != nil {
			r.logger.Warn("balanceOf failed", zap.Error(err), zap.String("token", token.Hex()))
		}
		return err
	})
	return balance, err
}

func (r *Reader) latestAnswerWithRetry(ctx context.Context, feed common.Address) (*big.Int, error) {
	var answer *big.Int
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		answer, err = r.latestAnswer(ctx, feed)
		if err != nil {
			r.logger.Warn("latestAnswer failed", zap.Error(err), zap.String("feed", feed.Hex()))
		}
		return err
	})
	return answer, err
}

func (r *Reader) balanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	contractABI, err := getReaderABI()
	if err != nil {
		return nil, err
	}

	data, err := contractABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	msg := ethereum.CallMsg{To: &token, Data: data}
	resp, err := r.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}

	values, err := contractABI.Unpack("balanceOf", resp)
	if err != nil {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("balanceOf return size %d", len(values))
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf unexpected type %T", values[0])
	}
	return balance, nil
}

func (r *Reader) latestAnswer(ctx context.Context, feed common.Address) (*big.Int, error) {
	contractABI, err := getReaderABI()
	if err != nil {
		return nil, err
	}

	data, err := contractABI.Pack("latestAnswer")
	if err != nil {
		return nil, fmt.Errorf("pack latestAnswer: %w", err)
	}

	msg := ethereum.CallMsg{To: &feed, Data: data}
	resp, err := r.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call latestAnswer: %w", err)
	}

	values, err := contractABI.Unpack("latestAnswer", resp)
	if err != nil {
		return nil, fmt.Errorf("unpack latestAnswer: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("latestAnswer return size %d", len(values))
	}
	answer, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("latestAnswer unexpected type %T", values[0])
	}
	return answer, nil
}
