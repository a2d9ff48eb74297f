package server

import (
	"context"
	"sync"

	"github.com/outcome-gg/outcome-engine/pkg/api"
	"github.com/outcome-gg/outcome-engine/pkg/core"
	"github.com/outcome-gg/outcome-engine/pkg/logging"
	"github.com/outcome-gg/outcome-engine/pkg/marketdata"
	"github.com/outcome-gg/outcome-engine/pkg/messaging"
	"github.com/outcome-gg/outcome-engine/pkg/otel"
	"go.opentelemetry.io/otel/attribute"
)

// EngineService serves one market instrument with one matching engine. A
// mutex serializes submissions so that each request or batch runs to full
// completion before the next is accepted; forwarding of results to the
// settlement and market-data collaborators happens after the book mutation
// is finalized and is fire-and-forget.
type EngineService struct {
	mu     sync.Mutex
	market string

	engine *core.MatchingEngine
	batch  *core.BatchProcessor

	settlement messaging.MessageSender
	marketData messaging.MessageSender
	quotes     *marketdata.Publisher
}

// Option configures an EngineService
type Option func(*EngineService)

// WithSettlementSender wires the settlement ledger feed
func WithSettlementSender(sender messaging.MessageSender) Option {
	return func(s *EngineService) { s.settlement = sender }
}

// WithMarketDataSender wires the market-data feed
func WithMarketDataSender(sender messaging.MessageSender) Option {
	return func(s *EngineService) { s.marketData = sender }
}

// WithQuotePublisher wires the Redis price/volume cache
func WithQuotePublisher(pub *marketdata.Publisher) Option {
	return func(s *EngineService) { s.quotes = pub }
}

// NewEngineService creates the service for one market
func NewEngineService(market string, engine *core.MatchingEngine, opts ...Option) *EngineService {
	s := &EngineService{
		market: market,
		engine: engine,
		batch:  core.NewBatchProcessor(engine),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Market returns the served market symbol
func (s *EngineService) Market() string {
	return s.market
}

// SubmitOrder processes one order submission and shapes the acknowledgment
func (s *EngineService) SubmitOrder(ctx context.Context, payload api.OrderPayload) (api.OrderAck, bool) {
	s.mu.Lock()
	done, err := s.engine.Process(ctx, payload.ToRequest())
	s.mu.Unlock()

	if err != nil {
		return api.NewOrderErrorAck(payload, err), false
	}

	go s.forward(done)

	return api.NewOrderAck(done), true
}

// SubmitBatch processes an ordered list of submissions, threading book state
// forward so later items can match orders created by earlier ones.
func (s *EngineService) SubmitBatch(ctx context.Context, payloads []api.OrderPayload) api.BatchAck {
	reqs := make([]core.OrderRequest, 0, len(payloads))
	for _, p := range payloads {
		reqs = append(reqs, p.ToRequest())
	}

	s.mu.Lock()
	batch := s.batch.ProcessMany(ctx, reqs)
	s.mu.Unlock()

	for i, err := range batch.Errs {
		if err == nil {
			go s.forward(&core.Done{
				OrderID:   batch.OrderIDs[i],
				Remaining: batch.Remaining[i],
				Trades:    batch.Trades[i],
			})
		}
	}

	return api.NewBatchAck(batch)
}

// BookSnapshot returns the current depth of both sides
func (s *EngineService) BookSnapshot() api.BookView {
	s.mu.Lock()
	defer s.mu.Unlock()

	backend := s.engine.Backend()
	return api.NewBookView(s.market, backend.Levels(core.Bid), backend.Levels(core.Ask))
}

// forward hands a processed result to the external collaborators. Runs on
// its own goroutine with a fresh context; the submitter never waits on it.
func (s *EngineService) forward(done *core.Done) {
	ctx, span := otel.StartOrderSpan(context.Background(), otel.SpanForwardDone,
		attribute.String(otel.AttributeOrderID, done.OrderID),
		attribute.String(otel.AttributeMarket, s.market),
		attribute.Int(otel.AttributeTradeCount, len(done.Trades)),
	)
	defer otel.EndSpan(span)

	logger := logging.FromContext(ctx)
	msg := messaging.NewDoneMessage(s.market, done)

	if s.settlement != nil {
		if err := s.settlement.SendDoneMessage(ctx, msg); err != nil {
			logger.Error().Err(err).Str("order_id", done.OrderID).Msg("Failed to forward result to settlement")
		}
	}

	if s.marketData != nil && len(done.Trades) > 0 {
		if err := s.marketData.SendDoneMessage(ctx, msg); err != nil {
			logger.Error().Err(err).Str("order_id", done.OrderID).Msg("Failed to forward trades to market data")
		}
	}

	if s.quotes != nil {
		if err := s.quotes.PublishTrades(ctx, s.market, done.Trades); err != nil {
			logger.Error().Err(err).Msg("Failed to publish trades to Redis")
		}

		bid, ask := s.bestQuotes()
		if err := s.quotes.PublishQuote(ctx, s.market, bid, ask); err != nil {
			logger.Error().Err(err).Msg("Failed to publish quote to Redis")
		}
	}
}

func (s *EngineService) bestQuotes() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	backend := s.engine.Backend()

	var bid, ask string
	if price, ok := backend.BestPrice(core.Bid); ok {
		bid = price.String()
	}
	if price, ok := backend.BestPrice(core.Ask); ok {
		ask = price.String()
	}
	return bid, ask
}
