package marketdata

import (
	"context"
	"fmt"
	"strconv"

	"github.com/outcome-gg/outcome-engine/pkg/core"
	redis "github.com/redis/go-redis/v9"
)

// Publisher pushes price and volume updates into Redis for the read-model
// and market-data consumers. Keys are namespaced per market:
//
//	{prefix}:{market}:last_price   decimal display price of the latest fill
//	{prefix}:{market}:volume       cumulative matched size
//	{prefix}:{market}:quote        hash with best bid/ask display prices
type Publisher struct {
	client *redis.Client
	prefix string
}

// NewPublisher creates a market-data publisher over an existing client
func NewPublisher(client *redis.Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = "marketdata"
	}
	return &Publisher{client: client, prefix: prefix}
}

func (p *Publisher) key(market, field string) string {
	return fmt.Sprintf("%s:%s:%s", p.prefix, market, field)
}

// PublishTrades records the latest trade price and adds matched volume
func (p *Publisher) PublishTrades(ctx context.Context, market string, trades []core.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	var volume int64
	for _, t := range trades {
		volume += t.Size
	}
	last := trades[len(trades)-1]

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.key(market, "last_price"), last.Price.String(), 0)
	pipe.IncrBy(ctx, p.key(market, "volume"), volume)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish trades: %w", err)
	}

	return nil
}

// PublishQuote records the current best bid and ask display prices. Empty
// strings clear the corresponding side.
func (p *Publisher) PublishQuote(ctx context.Context, market, bestBid, bestAsk string) error {
	if err := p.client.HSet(ctx, p.key(market, "quote"),
		"bid", bestBid,
		"ask", bestAsk,
	).Err(); err != nil {
		return fmt.Errorf("failed to publish quote: %w", err)
	}
	return nil
}

// LastPrice reads back the latest trade price, or "" when none was recorded
func (p *Publisher) LastPrice(ctx context.Context, market string) (string, error) {
	val, err := p.client.Get(ctx, p.key(market, "last_price")).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Volume reads back the cumulative matched size
func (p *Publisher) Volume(ctx context.Context, market string) (int64, error) {
	val, err := p.client.Get(ctx, p.key(market, "volume")).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}
