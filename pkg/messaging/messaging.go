package messaging

import (
	"context"
	"strconv"

	"github.com/outcome-gg/outcome-engine/pkg/core"
)

// MessageSender defines an interface for forwarding processed-order results
// to external collaborators. It decouples the engine service from concrete
// transports like Kafka.
type MessageSender interface {
	SendDoneMessage(ctx context.Context, done *DoneMessage) error
	Close() error
}

// DoneMessage is the wire structure describing one processed order. Trades
// are consumed by the settlement ledger; the engine never waits on it.
type DoneMessage struct {
	Market        string         `json:"market"`
	OrderID       string         `json:"orderId"`
	RemainingSize string         `json:"remainingSize"`
	Trades        []TradeMessage `json:"trades"`
}

// TradeMessage is a single fill. Price is the maker's price in stringified
// fixed-point integer form.
type TradeMessage struct {
	MakerID string `json:"makerId"`
	TakerID string `json:"takerId"`
	Size    string `json:"size"`
	Price   string `json:"price"`
}

// NewDoneMessage converts an engine result to its wire form
func NewDoneMessage(market string, done *core.Done) *DoneMessage {
	trades := make([]TradeMessage, 0, len(done.Trades))
	for _, t := range done.Trades {
		trades = append(trades, TradeMessage{
			MakerID: t.MakerID,
			TakerID: t.TakerID,
			Size:    strconv.FormatInt(t.Size, 10),
			Price:   core.FixedString(t.Price),
		})
	}

	return &DoneMessage{
		Market:        market,
		OrderID:       done.OrderID,
		RemainingSize: strconv.FormatInt(done.Remaining, 10),
		Trades:        trades,
	}
}
