package quoter

import (
	"context"

	"github.com/outcome-gg/outcome-engine/pkg/api"
)

// PriceSource defines the interface for fetching the current mid price
type PriceSource interface {
	// FetchMid returns the mid price the quoter should center its ladder on
	FetchMid(ctx context.Context) (float64, error)
	// Close releases any resources held by the price source
	Close() error
}

// OrderPlacer defines the interface for placing and canceling orders
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, payload api.OrderPayload) (api.OrderAck, error)
	Close() error
}

// QuotingStrategy defines the interface for quote generation strategies
type QuotingStrategy interface {
	// CalculateQuotes produces the order payloads to place around the mid
	CalculateQuotes(ctx context.Context, mid float64) ([]api.OrderPayload, error)
}
