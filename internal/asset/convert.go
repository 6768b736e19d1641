package asset

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ZeroBaseUnits is the sentinel returned for malformed or non-positive
// input. Callers detect invalid input by comparing against it.
const ZeroBaseUnits = "0"

// ToBaseUnits converts a human-readable decimal amount into the token's
// smallest-unit integer representation, returned as a base-10 string.
// Malformed input and amounts <= 0 yield ZeroBaseUnits, never an error:
// the amount field is fed directly from user keystrokes and a half-typed
// number is an expected state, not a failure.
//
// Fractional dust below the token's precision is truncated (floor).
func ToBaseUnits(amountText string, decimals int) string {
	d, err := decimal.NewFromString(strings.TrimSpace(amountText))
	if err != nil || !d.IsPositive() || decimals < 0 {
		return ZeroBaseUnits
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt().String()
}

// FromBaseUnits converts a smallest-unit integer string back into a
// human-readable decimal string. Malformed input yields ZeroBaseUnits.
func FromBaseUnits(raw string, decimals int) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || decimals < 0 {
		return ZeroBaseUnits
	}
	if !d.Equal(d.Truncate(0)) {
		return ZeroBaseUnits
	}
	return d.Shift(-int32(decimals)).String()
}

// FormatAmount renders a decimal with exactly the token's precision,
// e.g. 5 with 6 decimals -> "5.000000". Used for the displayed receive
// amount so the estimate and the routed amount format identically.
func FormatAmount(d decimal.Decimal, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return d.StringFixed(int32(decimals))
}

// ParsePositive parses a human amount and reports whether it is a
// well-formed positive number.
func ParsePositive(amountText string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(amountText))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
