package pricing

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

func TestTokenAmountToUsd(t *testing.T) {
	// 1,000,000 USDC at 1 USD.
	amount := new(big.Int).Mul(big.NewInt(1_000_000), fixedpoint.Exp10(6))
	price := fixedpoint.Exp10(fixedpoint.USDDecimals)

	got := TokenAmountToUsd(amount, 6, price)
	want := new(big.Int).Mul(big.NewInt(1_000_000), fixedpoint.Exp10(fixedpoint.USDDecimals))
	if got.Cmp(want) != 0 {
		t.Fatalf("tokenAmountToUsd: got %s, want %s", got, want)
	}

	if got := TokenAmountToUsd(nil, 6, price); got.Sign() != 0 {
		t.Fatalf("nil amount: got %s, want 0", got)
	}
	if got := TokenAmountToUsd(amount, 6, nil); got.Sign() != 0 {
		t.Fatalf("nil price: got %s, want 0", got)
	}
}

func TestUsdToTokenAmountRoundTrip(t *testing.T) {
	// 2,500 USD of an 18-decimal token at 2,500 USD each.
	price := new(big.Int).Mul(big.NewInt(2_500), fixedpoint.Exp10(fixedpoint.USDDecimals))
	usd := new(big.Int).Mul(big.NewInt(2_500), fixedpoint.Exp10(fixedpoint.USDDecimals))

	amount := UsdToTokenAmount(usd, 18, price)
	if amount.Cmp(fixedpoint.Exp10(18)) != 0 {
		t.Fatalf("usdToTokenAmount: got %s, want %s", amount, fixedpoint.Exp10(18))
	}

	back := TokenAmountToUsd(amount, 18, price)
	diff := new(big.Int).Sub(usd, back)
	// Truncation error is bounded by price / 10^decimals.
	bound := new(big.Int).Quo(price, fixedpoint.Exp10(18))
	if diff.Sign() < 0 || diff.Cmp(bound) > 0 {
		t.Fatalf("round trip drift %s exceeds bound %s", diff, bound)
	}
}

func TestMidPrice(t *testing.T) {
	price := model.Price{Min: big.NewInt(10), Max: big.NewInt(13)}
	if got := MidPrice(price); got.Int64() != 11 {
		t.Fatalf("midPrice: got %d, want 11", got.Int64())
	}
}

func TestPoolUsdWithoutPnl(t *testing.T) {
	usdc := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	weth := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	pool := &model.Pool{
		LongToken:       weth,
		ShortToken:      usdc,
		LongPoolAmount:  new(big.Int).Mul(big.NewInt(100), fixedpoint.Exp10(18)),
		ShortPoolAmount: new(big.Int).Mul(big.NewInt(1_000_000), fixedpoint.Exp10(6)),
	}
	snap := &model.Snapshot{
		Tokens: map[common.Address]model.Token{
			usdc: {Address: usdc, Decimals: 6, Symbol: "USDC"},
			weth: {Address: weth, Decimals: 18, Symbol: "WETH"},
		},
		Prices: map[common.Address]model.Price{
			usdc: {
				Min: fixedpoint.Exp10(fixedpoint.USDDecimals),
				Max: fixedpoint.Exp10(fixedpoint.USDDecimals),
			},
			weth: {
				Min: new(big.Int).Mul(big.NewInt(2_000), fixedpoint.Exp10(fixedpoint.USDDecimals)),
				Max: new(big.Int).Mul(big.NewInt(2_010), fixedpoint.Exp10(fixedpoint.USDDecimals)),
			},
		},
	}

	shortUsd := PoolUsdWithoutPnl(pool, snap, false, false)
	wantShort := new(big.Int).Mul(big.NewInt(1_000_000), fixedpoint.Exp10(fixedpoint.USDDecimals))
	if shortUsd.Cmp(wantShort) != 0 {
		t.Fatalf("short pool usd: got %s, want %s", shortUsd, wantShort)
	}

	longUsdMin := PoolUsdWithoutPnl(pool, snap, true, false)
	wantLongMin := new(big.Int).Mul(big.NewInt(200_000), fixedpoint.Exp10(fixedpoint.USDDecimals))
	if longUsdMin.Cmp(wantLongMin) != 0 {
		t.Fatalf("long pool usd min: got %s, want %s", longUsdMin, wantLongMin)
	}

	longUsdMax := PoolUsdWithoutPnl(pool, snap, true, true)
	wantLongMax := new(big.Int).Mul(big.NewInt(201_000), fixedpoint.Exp10(fixedpoint.USDDecimals))
	if longUsdMax.Cmp(wantLongMax) != 0 {
		t.Fatalf("long pool usd max: got %s, want %s", longUsdMax, wantLongMax)
	}

	missing := &model.Pool{LongToken: common.HexToAddress("0xcc"), ShortToken: usdc}
	if got := PoolUsdWithoutPnl(missing, snap, true, false); got.Sign() != 0 {
		t.Fatalf("missing token: got %s, want 0", got)
	}
}
