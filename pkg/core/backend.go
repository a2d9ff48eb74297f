package core

import "github.com/nikolaydubina/fpdecimal"

// BookBackend defines the storage interface for one instrument's order book.
// A backend holds two price-ordered sides of FIFO levels plus an index from
// order identifier to queue position; the matching engine is its only writer.
type BookBackend interface {
	// Find returns the resting order with the given identifier, or nil.
	Find(orderID string) *Order

	// Append inserts the order at the tail of the level at its price,
	// creating the level if absent, and registers it in the index.
	Append(order *Order)

	// Remove detaches the order from its level, deleting the level if it
	// becomes empty, and removes the index entry. Returns the removed order
	// or nil if the identifier is unknown.
	Remove(orderID string) *Order

	// Resize updates the remaining size in place without moving the order's
	// queue position. Returns false if the identifier is unknown.
	Resize(orderID string, newSize int64) bool

	// BestPrice returns the most aggressive non-empty level's price on the
	// given side; ok is false when the side is empty.
	BestPrice(side Side) (price fpdecimal.Decimal, ok bool)

	// Front returns the earliest-arrival order at the best level of the
	// given side, or nil when the side is empty.
	Front(side Side) *Order

	// Levels returns a best-first snapshot of the side's levels.
	Levels(side Side) []LevelView

	// Len returns the number of resting orders across both sides.
	Len() int
}

// LevelView is a read-only snapshot of one price level
type LevelView struct {
	Price  fpdecimal.Decimal
	Size   int64
	Orders int
}
