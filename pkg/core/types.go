package core

import (
	"encoding/json"

	"github.com/nikolaydubina/fpdecimal"
)

// OrderRequest is one validated-at-the-engine order submission. Size and
// Price arrive as decimal strings, the form the outer payload decoder hands
// over. An empty ID means a new order; a non-empty ID addresses a resting
// order for resize or cancel.
type OrderRequest struct {
	ID    string
	IsBid bool
	Size  string
	Price string
}

// Trade is one fill produced while an incoming order crosses the book. The
// price is always the resting (maker) order's price. Trades are never stored
// in the book; they are returned to the caller and forwarded to settlement.
type Trade struct {
	Size    int64
	Price   fpdecimal.Decimal
	MakerID string
	TakerID string
}

// MarshalJSON implements Marshaler interface
func (t Trade) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Size    int64  `json:"size"`
		Price   string `json:"price"`
		MakerID string `json:"makerId"`
		TakerID string `json:"takerId"`
	}{
		Size:    t.Size,
		Price:   FixedString(t.Price),
		MakerID: t.MakerID,
		TakerID: t.TakerID,
	})
}

// Done contains the result of processing one order request
type Done struct {
	// OrderID is the engine-assigned or confirmed order identifier
	OrderID string
	// Remaining is the size left unmatched after processing
	Remaining int64
	// Trades executed by this request, in fill order
	Trades []Trade
	// Stored reports whether a remainder rests in the book
	Stored bool
}

// Processed returns the total size filled by this request
func (d *Done) Processed() int64 {
	var total int64
	for _, t := range d.Trades {
		total += t.Size
	}
	return total
}

// BatchDone aggregates per-item results of a batch, in input order
type BatchDone struct {
	Successes []bool
	OrderIDs  []string
	Remaining []int64
	Trades    [][]Trade
	Errs      []error
}
