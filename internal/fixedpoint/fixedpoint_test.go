package fixedpoint

import (
	"math/big"
	"testing"
)

func TestExpandDecimals(t *testing.T) {
	cases := []struct {
		value    string
		decimals int
		want     string
	}{
		{"1", 30, "1" + zeros(30)},
		{"1000.50", 6, "1000500000"},
		{"0.123456789", 6, "123456"},
		{"-2.5", 2, "-250"},
		{"+7", 0, "7"},
		{".5", 1, "5"},
	}
	for _, tc := range cases {
		got, err := ExpandDecimals(tc.value, tc.decimals)
		if err != nil {
			t.Fatalf("expand %q: %v", tc.value, err)
		}
		if got.String() != tc.want {
			t.Fatalf("expand %q by %d: got %s, want %s", tc.value, tc.decimals, got, tc.want)
		}
	}
}

func TestExpandDecimalsRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", ".", "abc", "1.2.3", "1e5"} {
		if _, err := ExpandDecimals(value, 6); err == nil {
			t.Fatalf("expand %q: expected error", value)
		}
	}
}

func TestShrinkDecimals(t *testing.T) {
	cases := []struct {
		value    string
		decimals int
		roundTo  int
		want     string
	}{
		{"1000500000", 6, -1, "1000.5"},
		{"1000500000", 6, 0, "1001"},
		{"1234449", 6, 2, "1.23"},
		{"1235000", 6, 2, "1.24"},
		{"-1235000", 6, 2, "-1.24"},
		{"0", 6, 2, "0"},
	}
	for _, tc := range cases {
		value, _ := new(big.Int).SetString(tc.value, 10)
		got := ShrinkDecimals(value, tc.decimals, tc.roundTo)
		if got != tc.want {
			t.Fatalf("shrink %s by %d round %d: got %q, want %q", tc.value, tc.decimals, tc.roundTo, got, tc.want)
		}
	}
}

func TestExpandShrinkRoundTrip(t *testing.T) {
	for _, value := range []string{"0", "1", "1000.5", "-42.000001", "123456789.123456"} {
		expanded, err := ExpandDecimals(value, 6)
		if err != nil {
			t.Fatalf("expand %q: %v", value, err)
		}
		if got := ShrinkDecimals(expanded, 6, -1); got != value {
			t.Fatalf("round trip %q: got %q", value, got)
		}
	}
}

func TestRoundUpMagnitudeDivision(t *testing.T) {
	cases := []struct {
		numerator   int64
		denominator int64
		want        int64
	}{
		{7, 2, 4},
		{6, 2, 3},
		{-7, 2, -4},
		{-6, 2, -3},
		{0, 5, 0},
		{1, 3, 1},
		{-1, 3, -1},
	}
	for _, tc := range cases {
		got := RoundUpMagnitudeDivision(big.NewInt(tc.numerator), big.NewInt(tc.denominator))
		if got.Int64() != tc.want {
			t.Fatalf("roundUp %d/%d: got %d, want %d", tc.numerator, tc.denominator, got.Int64(), tc.want)
		}
	}
}

func TestApplyFactor(t *testing.T) {
	value := big.NewInt(1_000_000)
	// 0.05% as a Precision-scaled factor.
	factor := new(big.Int).Quo(new(big.Int).Mul(big.NewInt(5), Precision), big.NewInt(10_000))
	got := ApplyFactor(value, factor)
	if got.Int64() != 500 {
		t.Fatalf("applyFactor: got %d, want 500", got.Int64())
	}
}

func TestBasisPointsConversions(t *testing.T) {
	if got := BasisPoints(big.NewInt(50), big.NewInt(10_000)).Int64(); got != 50 {
		t.Fatalf("basisPoints: got %d, want 50", got)
	}
	if got := BasisPoints(big.NewInt(1), nil).Sign(); got != 0 {
		t.Fatalf("basisPoints nil denominator: got sign %d, want 0", got)
	}

	bps := big.NewInt(30)
	factor := BasisPointsToFactor(bps)
	back := FactorToBasisPoints(factor)
	if back.Cmp(bps) != 0 {
		t.Fatalf("bps round trip: got %s, want %s", back, bps)
	}
}

func zeros(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '0'
	}
	return string(out)
}
