package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// PriceScale is the number of fractional decimal digits carried by a price.
// Prices are stored as fixed-point integers scaled by 10^PriceScale, which is
// what fpdecimal does internally with its default three fraction digits.
const PriceScale = 3

// ParsePrice converts an externally supplied decimal price string into its
// internal fixed-point form. It is the single source of truth for what a
// valid price looks like: positive, at most three fractional digits, exact
// decimal parsing with no floating-point drift.
func ParsePrice(s string) (fpdecimal.Decimal, error) {
	if !wellFormedPrice(s) {
		return fpdecimal.Zero, ErrInvalidPrice
	}

	price, err := fpdecimal.FromString(s)
	if err != nil {
		return fpdecimal.Zero, ErrInvalidPrice
	}

	if price.LessThanOrEqual(fpdecimal.Zero) {
		return fpdecimal.Zero, ErrInvalidPrice
	}

	return price, nil
}

// wellFormedPrice checks the textual shape of a price: digits, at most one
// decimal point, no more than PriceScale fractional digits, no sign.
func wellFormedPrice(s string) bool {
	if s == "" {
		return false
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" {
		return false
	}
	if hasDot && len(fracPart) > PriceScale {
		return false
	}
	if hasDot && fracPart == "" {
		return false
	}

	for _, part := range []string{intPart, fracPart} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}

	return true
}

// FixedString renders a price in its integer wire form, e.g. 101.123 becomes
// "101123" and 96.5 becomes "96500". Trade records carry prices in this form.
func FixedString(price fpdecimal.Decimal) string {
	val := price.String()
	intPart, fracPart, _ := strings.Cut(val, ".")
	if len(fracPart) < PriceScale {
		fracPart += strings.Repeat("0", PriceScale-len(fracPart))
	}

	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		return "0"
	}
	return combined
}

// DisplayString converts an integer wire-form price back to its decimal
// display form, e.g. 101123 becomes "101.123" and 96500 becomes "96.5".
func DisplayString(fixed int64) string {
	whole := fixed / 1000
	frac := fixed % 1000
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}

	s := fmt.Sprintf("%d.%03d", whole, frac)
	return strings.TrimRight(s, "0")
}
