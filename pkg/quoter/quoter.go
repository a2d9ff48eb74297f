// Package quoter implements a passive liquidity sidecar that keeps a layered
// ladder of resting bids and asks around the market's mid price, refreshing
// them on a fixed interval through the engine's public order interface.
package quoter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/outcome-gg/outcome-engine/pkg/api"
)

// quoteRef remembers what a resting quote looked like when it was placed, so
// cancellation can echo the same side and price.
type quoteRef struct {
	isBid bool
	price json.Number
}

// Quoter runs the quoting loop for one market
type Quoter struct {
	config   *Config
	strategy QuotingStrategy
	source   PriceSource
	placer   OrderPlacer
	logger   *slog.Logger

	mu     sync.Mutex
	active map[string]quoteRef

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a quoter from its collaborators
func New(config *Config, logger *slog.Logger, strategy QuotingStrategy, source PriceSource, placer OrderPlacer) (*Quoter, error) {
	if config == nil || strategy == nil || source == nil || placer == nil {
		return nil, fmt.Errorf("quoter requires config, strategy, source and placer")
	}
	return &Quoter{
		config:   config,
		strategy: strategy,
		source:   source,
		placer:   placer,
		logger:   logger,
		active:   make(map[string]quoteRef),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start launches the quoting loop in the background
func (q *Quoter) Start(ctx context.Context) error {
	q.logger.Info("Starting quoter",
		"market", q.config.MarketSymbol,
		"levels", q.config.NumLevels,
		"interval", q.config.UpdateInterval)

	go q.run(ctx)
	return nil
}

// Stop withdraws the resting quotes and shuts the loop down. The context
// bounds how long shutdown may take.
func (q *Quoter) Stop(ctx context.Context) error {
	close(q.stopCh)

	select {
	case <-q.doneCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("quoter shutdown timed out: %w", ctx.Err())
	}
}

func (q *Quoter) run(ctx context.Context) {
	defer close(q.doneCh)

	ticker := time.NewTicker(q.config.UpdateInterval)
	defer ticker.Stop()

	q.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			q.withdrawAll(context.Background())
			return
		case <-q.stopCh:
			q.withdrawAll(context.Background())
			return
		case <-ticker.C:
			q.refresh(ctx)
		}
	}
}

// refresh replaces the full ladder: withdraw the previous quotes, recompute
// around the current mid, place the new set.
func (q *Quoter) refresh(ctx context.Context) {
	mid, err := q.source.FetchMid(ctx)
	if err != nil {
		q.logger.Error("Failed to fetch mid price, keeping current quotes", "error", err)
		return
	}

	q.withdrawAll(ctx)

	quotes, err := q.strategy.CalculateQuotes(ctx, mid)
	if err != nil {
		q.logger.Error("Failed to calculate quotes", "error", err)
		return
	}

	placed := 0
	for _, quote := range quotes {
		ack, err := q.placer.PlaceOrder(ctx, quote)
		if err != nil {
			q.logger.Error("Failed to place quote",
				"is_bid", quote.IsBid, "price", quote.Price.String(), "error", err)
			continue
		}

		// Fully filled on arrival; nothing resting to track.
		if ack.OrderSize == "0" {
			continue
		}

		q.mu.Lock()
		q.active[ack.OrderID] = quoteRef{isBid: quote.IsBid, price: quote.Price}
		q.mu.Unlock()
		placed++
	}

	q.logger.Info("Refreshed quote ladder", "mid", mid, "placed", placed)
}

// withdrawAll cancels every tracked resting quote. A quote the engine no
// longer knows was filled in the meantime and is simply dropped.
func (q *Quoter) withdrawAll(ctx context.Context) {
	q.mu.Lock()
	refs := q.active
	q.active = make(map[string]quoteRef)
	q.mu.Unlock()

	for id, ref := range refs {
		_, err := q.placer.PlaceOrder(ctx, api.OrderPayload{
			UID:   id,
			IsBid: ref.isBid,
			Size:  json.Number("0"),
			Price: ref.price,
		})
		if err != nil {
			q.logger.Warn("Failed to cancel quote", "order_id", id, "error", err)
		}
	}
}
