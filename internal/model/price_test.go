package model

import (
	"math/big"
	"testing"
)

func TestPriceMid(t *testing.T) {
	price := Price{Min: big.NewInt(10), Max: big.NewInt(13)}
	if got := price.Mid(); got.Int64() != 11 {
		t.Fatalf("mid: got %d, want 11", got.Int64())
	}
}

func TestPriceIsZero(t *testing.T) {
	if (Price{Min: big.NewInt(1), Max: big.NewInt(2)}).IsZero() {
		t.Fatalf("nonzero quote reported zero")
	}
	if !(Price{}).IsZero() {
		t.Fatalf("empty quote not reported zero")
	}
	if !(Price{Min: new(big.Int), Max: big.NewInt(2)}).IsZero() {
		t.Fatalf("zero min not reported zero")
	}
}

func TestPickPrice(t *testing.T) {
	price := Price{Min: big.NewInt(10), Max: big.NewInt(13)}
	if price.PickPrice(true).Int64() != 13 {
		t.Fatalf("maximize picked wrong side")
	}
	if price.PickPrice(false).Int64() != 10 {
		t.Fatalf("minimize picked wrong side")
	}
}
