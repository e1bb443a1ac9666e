package fixedpoint

import (
	"fmt"
	"math/big"
	"strings"
)

// Global scaling constants for on-chain quantities.
const (
	// USDDecimals is the fixed decimal exponent of USD-denominated values.
	USDDecimals = 30
	// BasisPointsDivisor converts a ratio into basis points.
	BasisPointsDivisor = 10_000
)

var (
	// Precision scales factor-style configuration values (fee factors,
	// impact factors, multipliers): applied value = value * factor / Precision.
	Precision = Exp10(30)

	bpsDivisor = big.NewInt(BasisPointsDivisor)
)

// Exp10 returns 10^decimals.
func Exp10(decimals int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// ExpandDecimals parses a decimal string and scales it by 10^decimals.
// Fractional digits beyond the target precision are truncated, not rounded.
func ExpandDecimals(value string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must be >= 0, got %d", decimals)
	}

	s := strings.TrimSpace(value)
	if s == "" {
		return nil, fmt.Errorf("empty numeric string")
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("invalid numeric string %q", value)
	}
	if intPart == "" {
		intPart = "0"
	}

	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals]
	}
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	result, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid numeric string %q", value)
	}
	if negative {
		result.Neg(result)
	}
	return result, nil
}

// ShrinkDecimals formats a scaled integer back into a decimal string.
// roundTo < 0 keeps all fractional digits; roundTo >= 0 rounds the fraction
// to that many places using round-half-up on the magnitude.
func ShrinkDecimals(value *big.Int, decimals int, roundTo int) string {
	if value == nil {
		return "0"
	}
	if decimals <= 0 {
		return value.String()
	}

	negative := value.Sign() < 0
	abs := new(big.Int).Abs(value)

	if roundTo >= 0 && roundTo < decimals {
		// Round half up at the target place before splitting.
		scale := Exp10(decimals - roundTo)
		half := new(big.Int).Rsh(scale, 1)
		abs.Add(abs, half)
		abs.Div(abs, scale)
		abs.Mul(abs, scale)
	}

	digits := abs.String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}

	intPart := digits[:len(digits)-decimals]
	fracPart := digits[len(digits)-decimals:]
	if roundTo >= 0 && roundTo < len(fracPart) {
		fracPart = fracPart[:roundTo]
	}
	fracPart = strings.TrimRight(fracPart, "0")

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if negative && out != "0" {
		out = "-" + out
	}
	return out
}

// RoundUpMagnitudeDivision divides numerator by denominator rounding away
// from zero in the numerator's sign direction. Fee and impact charges use
// this so that a remainder never under-charges.
func RoundUpMagnitudeDivision(numerator, denominator *big.Int) *big.Int {
	if numerator.Sign() < 0 {
		// (n - d + 1) / d for negative n mirrors the positive case.
		adjusted := new(big.Int).Sub(numerator, denominator)
		adjusted.Add(adjusted, big.NewInt(1))
		return adjusted.Quo(adjusted, denominator)
	}
	adjusted := new(big.Int).Add(numerator, denominator)
	adjusted.Sub(adjusted, big.NewInt(1))
	return adjusted.Quo(adjusted, denominator)
}

// ApplyFactor applies a Precision-scaled factor to a value.
func ApplyFactor(value, factor *big.Int) *big.Int {
	result := new(big.Int).Mul(value, factor)
	return result.Quo(result, Precision)
}

// BasisPoints returns numerator/denominator expressed in basis points,
// truncated toward zero. A zero denominator yields zero.
func BasisPoints(numerator, denominator *big.Int) *big.Int {
	if denominator == nil || denominator.Sign() == 0 {
		return new(big.Int)
	}
	result := new(big.Int).Mul(numerator, bpsDivisor)
	return result.Quo(result, denominator)
}

// FactorToBasisPoints converts a Precision-scaled factor to basis points.
func FactorToBasisPoints(factor *big.Int) *big.Int {
	result := new(big.Int).Mul(factor, bpsDivisor)
	return result.Quo(result, Precision)
}

// BasisPointsToFactor converts basis points to a Precision-scaled factor.
func BasisPointsToFactor(bps *big.Int) *big.Int {
	result := new(big.Int).Mul(bps, Precision)
	return result.Quo(result, bpsDivisor)
}
