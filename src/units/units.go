// Package units implements fixed-point conversion between human decimal
// amounts and integer token smallest-units, plus fiat<->token conversion
// on a configured exchange rate.
//
// Notes:
// - ToUnits works on digit strings, never on floats, so sub-unit amounts
//   cannot drift at the 6-decimal boundary
// - Parsing is permissive: malformed input degrades to zero instead of
//   returning an error; callers pre-validate ranges before converting
// - The token->fiat direction is display-only and intentionally not
//   routed through the integer path
package units

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// USDCDecimals is the smallest-unit precision of USDC (micro-USDC).
const USDCDecimals = 6

// ToUnits converts a decimal string (e.g. "6.375") into an integer number
// of smallest units at the given precision. Fractional digits beyond the
// precision are truncated, not rounded. Empty or garbage input yields zero.
func ToUnits(value string, decimals int) *big.Int {
	if value == "" {
		return new(big.Int)
	}

	intPart, fracPart, _ := strings.Cut(value, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) < decimals {
		fracPart += strings.Repeat("0", decimals-len(fracPart))
	}
	fracPart = fracPart[:decimals]

	// keep digits only, drops signs and any stray characters
	var digits strings.Builder
	for _, r := range intPart + fracPart {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return new(big.Int)
	}

	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

// FiatToTokenUnits converts a fiat (NGN) amount into micro-USDC units at
// the given fiat-per-USDC rate. A zero amount or zero rate yields zero.
func FiatToTokenUnits(fiat, rate decimal.Decimal) *big.Int {
	if fiat.IsZero() || rate.IsZero() {
		return new(big.Int)
	}
	usd := fiat.Div(rate)
	// format to exactly 6 fractional digits before the digit-string conversion
	return ToUnits(usd.StringFixed(USDCDecimals), USDCDecimals)
}

// TokenToFiat converts a USDC amount into fiat (NGN) for display.
func TokenToFiat(token, rate decimal.Decimal) decimal.Decimal {
	if token.IsZero() || rate.IsZero() {
		return decimal.Zero
	}
	return token.Mul(rate)
}
