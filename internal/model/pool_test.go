package model

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestPoolCollateralHelpers(t *testing.T) {
	long := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	short := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	other := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	pool := &Pool{
		LongToken:       long,
		ShortToken:      short,
		LongPoolAmount:  big.NewInt(100),
		ShortPoolAmount: big.NewInt(200),
	}

	if !pool.HasCollateral(long) || !pool.HasCollateral(short) || pool.HasCollateral(other) {
		t.Fatalf("collateral membership wrong")
	}
	if !pool.IsLongCollateral(long) || pool.IsLongCollateral(short) {
		t.Fatalf("long collateral check wrong")
	}

	opposite, ok := pool.OppositeCollateral(long)
	if !ok || opposite != short {
		t.Fatalf("opposite of long: got %s, ok=%v", opposite.Hex(), ok)
	}
	if _, ok := pool.OppositeCollateral(other); ok {
		t.Fatalf("foreign token has an opposite")
	}

	if pool.PoolAmount(long).Int64() != 100 || pool.PoolAmount(short).Int64() != 200 {
		t.Fatalf("pool amounts wrong")
	}
}

func TestPoolPnlVariants(t *testing.T) {
	pool := &Pool{
		PnlLongMax:  big.NewInt(4),
		PnlLongMin:  big.NewInt(3),
		PnlShortMax: big.NewInt(2),
		PnlShortMin: big.NewInt(1),
	}
	cases := []struct {
		isLong   bool
		maximize bool
		want     int64
	}{
		{true, true, 4},
		{true, false, 3},
		{false, true, 2},
		{false, false, 1},
	}
	for _, tc := range cases {
		if got := pool.Pnl(tc.isLong, tc.maximize).Int64(); got != tc.want {
			t.Fatalf("pnl(%v, %v): got %d, want %d", tc.isLong, tc.maximize, got, tc.want)
		}
	}
}
