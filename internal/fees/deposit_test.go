package fees

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

var (
	testUsdc = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testWeth = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

// balancedPool is a 50/50 WETH/USDC pool worth 1,000,000 USD with shares
// trading at par.
func balancedPool() (*model.Pool, *model.Snapshot) {
	pool := &model.Pool{
		LongToken:  testWeth,
		ShortToken: testUsdc,
		// 250 WETH at 2000 and 500,000 USDC at 1.
		LongPoolAmount:        new(big.Int).Mul(big.NewInt(250), fixedpoint.Exp10(18)),
		ShortPoolAmount:       new(big.Int).Mul(big.NewInt(500_000), fixedpoint.Exp10(6)),
		SwapFeeFactorPositive: factorBps(5),
		SwapFeeFactorNegative: factorBps(10),
		PoolValueUsd:          usd(1_000_000),
		MarketTokenSupply:     new(big.Int).Mul(big.NewInt(1_000_000), fixedpoint.Exp10(18)),
	}
	snap := &model.Snapshot{
		Pools: []*model.Pool{pool},
		Tokens: map[common.Address]model.Token{
			testUsdc: {Address: testUsdc, Decimals: 6, Symbol: "USDC"},
			testWeth: {Address: testWeth, Decimals: 18, Symbol: "WETH"},
		},
		Prices: map[common.Address]model.Price{
			testUsdc: {Min: usd(1), Max: usd(1)},
			testWeth: {Min: usd(2_000), Max: usd(2_000)},
		},
	}
	return pool, snap
}

func shares(amount int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(amount), fixedpoint.Exp10(18))
}

func TestMarketTokenPricing(t *testing.T) {
	pool, _ := balancedPool()

	if got := MarketTokenAmountToUsd(pool, shares(1000)); got.Cmp(usd(1000)) != 0 {
		t.Fatalf("shares to usd: got %s, want %s", got, usd(1000))
	}
	if got := UsdToMarketTokenAmount(pool, usd(1000)); got.Cmp(shares(1000)) != 0 {
		t.Fatalf("usd to shares: got %s, want %s", got, shares(1000))
	}

	// An empty pool mints at par.
	empty := &model.Pool{}
	if got := UsdToMarketTokenAmount(empty, usd(42)); got.Cmp(shares(42)) != 0 {
		t.Fatalf("par mint: got %s, want %s", got, shares(42))
	}
	if got := MarketTokenAmountToUsd(empty, shares(42)); got.Cmp(usd(42)) != 0 {
		t.Fatalf("par value: got %s, want %s", got, usd(42))
	}
}

func TestGetDepositAmountsByCollaterals(t *testing.T) {
	pool, snap := balancedPool()

	// 1000 USDC in, 10 bps deposit fee, no UI fee.
	amounts := GetDepositAmountsByCollaterals(pool, snap, nil, new(big.Int).Mul(big.NewInt(1000), fixedpoint.Exp10(6)), nil)

	if amounts.Strategy != DepositByCollaterals {
		t.Fatalf("strategy: got %d", amounts.Strategy)
	}
	if amounts.ShortTokenUsd.Cmp(usd(1000)) != 0 {
		t.Fatalf("short usd: got %s, want %s", amounts.ShortTokenUsd, usd(1000))
	}
	if amounts.SwapFeeUsd.Cmp(usd(1)) != 0 {
		t.Fatalf("fee: got %s, want %s", amounts.SwapFeeUsd, usd(1))
	}
	if amounts.MarketTokenUsd.Cmp(usd(999)) != 0 {
		t.Fatalf("mint usd: got %s, want %s", amounts.MarketTokenUsd, usd(999))
	}
	if amounts.MarketTokenAmount.Cmp(shares(999)) != 0 {
		t.Fatalf("minted shares: got %s, want %s", amounts.MarketTokenAmount, shares(999))
	}
}

func TestGetDepositAmountsByMarketToken(t *testing.T) {
	pool, snap := balancedPool()

	amounts := GetDepositAmountsByMarketToken(pool, snap, shares(1000), nil)

	if amounts.MarketTokenUsd.Cmp(usd(1000)) != 0 {
		t.Fatalf("share usd: got %s, want %s", amounts.MarketTokenUsd, usd(1000))
	}
	// Required collateral is grossed up for the 10 bps fee and split 50/50.
	halfGross := new(big.Int).Quo(usd(1001), big.NewInt(2))
	if amounts.LongTokenUsd.Cmp(halfGross) != 0 {
		t.Fatalf("long usd: got %s, want %s", amounts.LongTokenUsd, halfGross)
	}
	if amounts.ShortTokenUsd.Cmp(halfGross) != 0 {
		t.Fatalf("short usd: got %s, want %s", amounts.ShortTokenUsd, halfGross)
	}
	// 500.50 USD of WETH at 2000.
	wantWeth := big.NewInt(250_250_000_000_000_000)
	if amounts.LongTokenAmount.Cmp(wantWeth) != 0 {
		t.Fatalf("long amount: got %s, want %s", amounts.LongTokenAmount, wantWeth)
	}
	wantUsdc := big.NewInt(500_500_000)
	if amounts.ShortTokenAmount.Cmp(wantUsdc) != 0 {
		t.Fatalf("short amount: got %s, want %s", amounts.ShortTokenAmount, wantUsdc)
	}
}

func TestGetWithdrawalAmountsByMarketToken(t *testing.T) {
	pool, snap := balancedPool()

	amounts := GetWithdrawalAmountsByMarketToken(pool, snap, shares(1000), nil)

	if amounts.MarketTokenUsd.Cmp(usd(1000)) != 0 {
		t.Fatalf("share usd: got %s, want %s", amounts.MarketTokenUsd, usd(1000))
	}
	if amounts.SwapFeeUsd.Cmp(usd(1)) != 0 {
		t.Fatalf("fee: got %s, want %s", amounts.SwapFeeUsd, usd(1))
	}
	halfNet := new(big.Int).Quo(usd(999), big.NewInt(2))
	if amounts.LongTokenUsd.Cmp(halfNet) != 0 {
		t.Fatalf("long usd: got %s, want %s", amounts.LongTokenUsd, halfNet)
	}
	// 499.50 USD of WETH at 2000.
	wantWeth := big.NewInt(249_750_000_000_000_000)
	if amounts.LongTokenAmount.Cmp(wantWeth) != 0 {
		t.Fatalf("long amount: got %s, want %s", amounts.LongTokenAmount, wantWeth)
	}
	wantUsdc := big.NewInt(499_500_000)
	if amounts.ShortTokenAmount.Cmp(wantUsdc) != 0 {
		t.Fatalf("short amount: got %s, want %s", amounts.ShortTokenAmount, wantUsdc)
	}
}

func TestGetWithdrawalAmountsByCollaterals(t *testing.T) {
	pool, snap := balancedPool()

	// Want a quarter of a WETH out; the pool pays the short side pro rata.
	quarterWeth := big.NewInt(250_000_000_000_000_000)
	amounts := GetWithdrawalAmountsByCollaterals(pool, snap, quarterWeth, nil)

	if amounts.LongTokenUsd.Cmp(usd(500)) != 0 {
		t.Fatalf("long usd: got %s, want %s", amounts.LongTokenUsd, usd(500))
	}
	if amounts.ShortTokenUsd.Cmp(usd(500)) != 0 {
		t.Fatalf("short usd: got %s, want %s", amounts.ShortTokenUsd, usd(500))
	}
	if amounts.SwapFeeUsd.Cmp(usd(1)) != 0 {
		t.Fatalf("fee: got %s, want %s", amounts.SwapFeeUsd, usd(1))
	}
	// Shares redeemed cover the payout plus the fee.
	if amounts.MarketTokenUsd.Cmp(usd(1001)) != 0 {
		t.Fatalf("share usd: got %s, want %s", amounts.MarketTokenUsd, usd(1001))
	}
	if amounts.MarketTokenAmount.Cmp(shares(1001)) != 0 {
		t.Fatalf("shares: got %s, want %s", amounts.MarketTokenAmount, shares(1001))
	}
}
