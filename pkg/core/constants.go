package core

import "errors"

// Errors
var (
	// ErrInvalidSize covers non-positive, non-integer and wrong-for-context sizes.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidPrice covers non-positive prices and prices with more than
	// three fractional decimal digits.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrPriceChanged is returned when a mutation request carries a price that
	// differs from the resting order's stored price.
	ErrPriceChanged = errors.New("price change not allowed")

	// ErrInvalidSide is returned when a mutation request tries to flip the side
	// of a resting order.
	ErrInvalidSide = errors.New("side change not allowed")

	// ErrOrderNotFound is returned when a mutation request references an
	// unknown order identifier.
	ErrOrderNotFound = errors.New("order not found")
)
