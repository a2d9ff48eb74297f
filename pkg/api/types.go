// Package api defines the tagged request and acknowledgment payloads of the
// order-processing boundary and their conversions from engine results.
package api

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/outcome-gg/outcome-engine/pkg/core"
)

// Acknowledgment actions
const (
	ActionOrderProcessed    = "Order-Processed"
	ActionOrdersProcessed   = "Orders-Processed"
	ActionProcessOrderError = "Process-Order-Error"
)

// Error codes surfaced on the wire
const (
	CodeInvalidSize    = "InvalidSize"
	CodeInvalidPrice   = "InvalidPrice"
	CodePriceChanged   = "PriceChanged"
	CodeInvalidIsBid   = "InvalidIsBid"
	CodeInvalidOrderID = "InvalidOrderId"
	CodeInternalError  = "InternalError"
)

// OrderPayload is one inbound order submission. Size and price are JSON
// numbers or numeric strings; uid addresses an existing resting order.
type OrderPayload struct {
	UID   string      `json:"uid,omitempty"`
	IsBid bool        `json:"isBid"`
	Size  json.Number `json:"size"`
	Price json.Number `json:"price"`
}

// ToRequest converts the payload to an engine request
func (p OrderPayload) ToRequest() core.OrderRequest {
	return core.OrderRequest{
		ID:    p.UID,
		IsBid: p.IsBid,
		Size:  p.Size.String(),
		Price: p.Price.String(),
	}
}

// TradeRecord is one fill as it appears in acknowledgments. Price is the
// maker's price as a stringified fixed-point integer, e.g. "101000".
type TradeRecord struct {
	Size  int64  `json:"size"`
	Price string `json:"price"`
}

// OrderAck acknowledges one processed order submission
type OrderAck struct {
	Action    string        `json:"Action"`
	Success   string        `json:"Success"`
	OrderID   string        `json:"OrderId"`
	OrderSize string        `json:"OrderSize"`
	Error     string        `json:"Error,omitempty"`
	Data      []TradeRecord `json:"Data"`
}

// BatchAck acknowledges a batch. Successes, OrderIds and OrderSizes are
// JSON-encoded parallel lists; Data carries one trade list per input item,
// in input order.
type BatchAck struct {
	Action     string          `json:"Action"`
	Successes  string          `json:"Successes"`
	OrderIDs   string          `json:"OrderIds"`
	OrderSizes string          `json:"OrderSizes"`
	Data       [][]TradeRecord `json:"Data"`
}

// NewOrderAck builds the acknowledgment for a successful submission
func NewOrderAck(done *core.Done) OrderAck {
	return OrderAck{
		Action:    ActionOrderProcessed,
		Success:   "true",
		OrderID:   done.OrderID,
		OrderSize: strconv.FormatInt(done.Remaining, 10),
		Data:      tradeRecords(done.Trades),
	}
}

// NewOrderErrorAck builds the acknowledgment for a rejected submission
func NewOrderErrorAck(p OrderPayload, err error) OrderAck {
	return OrderAck{
		Action:    ActionProcessOrderError,
		Success:   "false",
		OrderID:   p.UID,
		OrderSize: "0",
		Error:     ErrorCode(err),
		Data:      []TradeRecord{},
	}
}

// NewBatchAck builds the acknowledgment for a processed batch
func NewBatchAck(batch *core.BatchDone) BatchAck {
	successes := make([]string, len(batch.Successes))
	for i, ok := range batch.Successes {
		successes[i] = strconv.FormatBool(ok)
	}

	sizes := make([]string, len(batch.Remaining))
	for i, r := range batch.Remaining {
		sizes[i] = strconv.FormatInt(r, 10)
	}

	data := make([][]TradeRecord, len(batch.Trades))
	for i, trades := range batch.Trades {
		data[i] = tradeRecords(trades)
	}

	return BatchAck{
		Action:     ActionOrdersProcessed,
		Successes:  encodeList(successes),
		OrderIDs:   encodeList(batch.OrderIDs),
		OrderSizes: encodeList(sizes),
		Data:       data,
	}
}

// ErrorCode maps an engine error to its wire code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidSize):
		return CodeInvalidSize
	case errors.Is(err, core.ErrInvalidPrice):
		return CodeInvalidPrice
	case errors.Is(err, core.ErrPriceChanged):
		return CodePriceChanged
	case errors.Is(err, core.ErrInvalidSide):
		return CodeInvalidIsBid
	case errors.Is(err, core.ErrOrderNotFound):
		return CodeInvalidOrderID
	default:
		return CodeInternalError
	}
}

func tradeRecords(trades []core.Trade) []TradeRecord {
	records := make([]TradeRecord, 0, len(trades))
	for _, t := range trades {
		records = append(records, TradeRecord{
			Size:  t.Size,
			Price: core.FixedString(t.Price),
		})
	}
	return records
}

func encodeList(items []string) string {
	data, _ := json.Marshal(items)
	return string(data)
}
