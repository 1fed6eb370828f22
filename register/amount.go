package register

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a sale amount. It must be a number greater than zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, &InvalidAmountError{Input: s, Reason: "must be greater than zero"}
	}
	return d, nil
}

// ParseBalance parses an opening balance. Blank input counts as zero;
// negative balances are rejected.
func ParseBalance(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, &InvalidAmountError{Input: s, Reason: "must not be negative"}
	}
	return d, nil
}

// Bounds on parsed amounts. Rendering a decimal costs as many bytes as its
// exponent, so "1e400000000" must never reach the ledger.
const (
	minExponent = -8
	maxExponent = 12
	maxDigits   = 20
)

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &InvalidAmountError{Input: s, Reason: "not a number"}
	}
	if d.Exponent() < minExponent || d.Exponent() > maxExponent || d.NumDigits() > maxDigits {
		return decimal.Zero, &InvalidAmountError{Input: s, Reason: "out of range"}
	}
	return d, nil
}

// FormatAmount renders an amount rounded to two decimals, e.g. "130.00".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
