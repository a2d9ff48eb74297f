package core

import (
	"encoding/json"
	"strconv"

	"github.com/nikolaydubina/fpdecimal"
)

// Side represents the buy or sell side of an order
type Side int

// Order sides
const (
	Ask Side = iota
	Bid
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Bid:
		return "BID"
	case Ask:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

// SideFromIsBid maps the wire-level isBid flag to a Side
func SideFromIsBid(isBid bool) Side {
	if isBid {
		return Bid
	}
	return Ask
}

// Order is a resting limit order. Side and price never change after
// creation; only the remaining size may be mutated, and only through a
// request bearing the order's identifier.
type Order struct {
	id            string
	side          Side
	originalSize  int64
	remainingSize int64
	price         fpdecimal.Decimal
	seq           uint64
}

// NewOrder creates a resting order. The arrival sequence number is assigned
// once and used only as the FIFO tie-break within a price level.
func NewOrder(orderID string, side Side, size int64, price fpdecimal.Decimal, seq uint64) (*Order, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	if price.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidPrice
	}

	return &Order{
		id:            orderID,
		side:          side,
		originalSize:  size,
		remainingSize: size,
		price:         price,
		seq:           seq,
	}, nil
}

// ID returns the order identifier
func (o *Order) ID() string {
	return o.id
}

// Side returns the side of the Order
func (o *Order) Side() Side {
	return o.side
}

// OriginalSize returns the size the order was created with
func (o *Order) OriginalSize() int64 {
	return o.originalSize
}

// RemainingSize returns the unfilled size
func (o *Order) RemainingSize() int64 {
	return o.remainingSize
}

// Price returns the order price in internal fixed-point form
func (o *Order) Price() fpdecimal.Decimal {
	return o.price
}

// Seq returns the arrival sequence number
func (o *Order) Seq() uint64 {
	return o.seq
}

// SetRemaining mutates the remaining size in place. The caller is expected
// to have validated the new size; queue position is not affected.
func (o *Order) SetRemaining(size int64) {
	o.remainingSize = size
	if size > o.originalSize {
		o.originalSize = size
	}
}

// IsFilled reports whether the order has no remaining size
func (o *Order) IsFilled() bool {
	return o.remainingSize == 0
}

// MarshalJSON implements custom JSON marshaling for Order
func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID            string `json:"id"`
		Side          string `json:"side"`
		OriginalSize  string `json:"originalSize"`
		RemainingSize string `json:"remainingSize"`
		Price         string `json:"price"`
		Seq           uint64 `json:"seq"`
	}{
		ID:            o.id,
		Side:          o.side.String(),
		OriginalSize:  strconv.FormatInt(o.originalSize, 10),
		RemainingSize: strconv.FormatInt(o.remainingSize, 10),
		Price:         o.price.String(),
		Seq:           o.seq,
	})
}

// String implements Stringer interface
func (o *Order) String() string {
	j, _ := o.MarshalJSON()
	return string(j)
}
