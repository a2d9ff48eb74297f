package quoter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/outcome-gg/outcome-engine/pkg/api"
)

// HTTPOrderPlacer submits orders over the engine's HTTP interface
type HTTPOrderPlacer struct {
	config *Config
	client *http.Client
	logger *slog.Logger
}

// NewHTTPOrderPlacer creates an order placer for the configured engine
func NewHTTPOrderPlacer(config *Config, logger *slog.Logger) *HTTPOrderPlacer {
	return &HTTPOrderPlacer{
		config: config,
		client: &http.Client{Timeout: config.HTTPTimeout},
		logger: logger,
	}
}

// PlaceOrder submits one order payload and returns the acknowledgment.
// Rejections come back as an error carrying the wire error code.
func (p *HTTPOrderPlacer) PlaceOrder(ctx context.Context, payload api.OrderPayload) (api.OrderAck, error) {
	var ack api.OrderAck

	body, err := json.Marshal(payload)
	if err != nil {
		return ack, fmt.Errorf("failed to encode order payload: %w", err)
	}

	url := p.config.EngineHTTPAddr + "/v1/order"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ack, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return ack, fmt.Errorf("failed to submit order: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return ack, fmt.Errorf("failed to decode order acknowledgment: %w", err)
	}

	if ack.Action == api.ActionProcessOrderError {
		return ack, fmt.Errorf("order rejected: %s", ack.Error)
	}

	p.logger.Debug("Order placed",
		"order_id", ack.OrderID, "is_bid", payload.IsBid,
		"size", payload.Size.String(), "price", payload.Price.String())

	return ack, nil
}

// Close releases the underlying HTTP connections
func (p *HTTPOrderPlacer) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
