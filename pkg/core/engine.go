package core

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nikolaydubina/fpdecimal"
	"github.com/outcome-gg/outcome-engine/pkg/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MatchingEngine validates order requests and executes crossing logic
// against one exclusively owned book. Processing is single-threaded per
// instrument: one request runs to completion before the next is accepted,
// so serializability is structural. The engine performs no I/O; trade
// forwarding happens in the caller after the book mutation is finalized.
type MatchingEngine struct {
	backend BookBackend
	seq     uint64
	newID   func() string
}

// NewMatchingEngine creates a MatchingEngine over the given backend
func NewMatchingEngine(backend BookBackend) *MatchingEngine {
	return &MatchingEngine{
		backend: backend,
		newID:   uuid.NewString,
	}
}

// SetIDGenerator overrides the order identifier generator. Intended for
// tests that need deterministic identifiers.
func (e *MatchingEngine) SetIDGenerator(fn func() string) {
	e.newID = fn
}

// Backend returns the book backend owned by this engine
func (e *MatchingEngine) Backend() BookBackend {
	return e.backend
}

// Process validates one request fully, then mutates the book. Validation is
// all-or-nothing: a request that fails any check leaves the book untouched
// and returns one of the sentinel errors from constants.go.
func (e *MatchingEngine) Process(ctx context.Context, req OrderRequest) (*Done, error) {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanProcessOrder,
		attribute.String(otel.AttributeOrderID, req.ID),
		attribute.Bool(otel.AttributeOrderIsBid, req.IsBid),
		attribute.String(otel.AttributeOrderSize, req.Size),
		attribute.String(otel.AttributeOrderPrice, req.Price),
	)
	defer otel.EndSpan(span)

	start := time.Now()
	defer func() {
		otel.GetEngineMetrics().RecordProcessDuration(ctx, float64(time.Since(start).Microseconds())/1000)
	}()

	price, err := ParsePrice(req.Price)
	if err != nil {
		otel.SetSpanStatus(span, codes.Error, "invalid price")
		return nil, err
	}

	var done *Done
	if req.ID != "" {
		done, err = e.processMutation(req, price)
	} else {
		done, err = e.processNewOrder(ctx, req, price)
	}

	if err != nil {
		otel.SetSpanStatus(span, codes.Error, "validation failed")
		return nil, err
	}

	otel.AddAttributes(span,
		attribute.String(otel.AttributeOrderID, done.OrderID),
		attribute.Int64(otel.AttributeRemainingSize, done.Remaining),
		attribute.Int(otel.AttributeTradeCount, len(done.Trades)),
	)
	otel.SetSpanStatus(span, codes.Ok, "order processed")
	otel.GetEngineMetrics().RecordOrderProcessed(ctx, len(done.Trades))

	return done, nil
}

// processMutation handles requests that address a resting order by
// identifier: size zero cancels, a positive size resizes in place. Neither
// path attempts any matching, even if the new size would now cross.
func (e *MatchingEngine) processMutation(req OrderRequest, price fpdecimal.Decimal) (*Done, error) {
	existing := e.backend.Find(req.ID)
	if existing == nil {
		return nil, ErrOrderNotFound
	}

	if SideFromIsBid(req.IsBid) != existing.Side() {
		return nil, ErrInvalidSide
	}

	if !price.Equal(existing.Price()) {
		return nil, ErrPriceChanged
	}

	size, err := parseSize(req.Size, true)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		e.backend.Remove(req.ID)
		return &Done{OrderID: req.ID, Remaining: 0, Trades: []Trade{}}, nil
	}

	// Time priority at the same price is kept regardless of whether the
	// size grows or shrinks.
	e.backend.Resize(req.ID, size)
	return &Done{OrderID: req.ID, Remaining: size, Trades: []Trade{}, Stored: true}, nil
}

// processNewOrder matches an incoming order against the opposing side,
// sweeping across resting orders and price levels until it stops crossing
// or is exhausted, then rests any remainder at its submitted price.
func (e *MatchingEngine) processNewOrder(ctx context.Context, req OrderRequest, price fpdecimal.Decimal) (*Done, error) {
	size, err := parseSize(req.Size, false)
	if err != nil {
		return nil, err
	}

	side := SideFromIsBid(req.IsBid)
	opposite := side.opposite()
	takerID := e.newID()

	remaining := size
	trades := make([]Trade, 0)

	for remaining > 0 {
		best, ok := e.backend.BestPrice(opposite)
		if !ok || !crosses(side, price, best) {
			break
		}

		maker := e.backend.Front(opposite)
		fill := min64(remaining, maker.RemainingSize())

		// Trades always execute at the resting order's price.
		trades = append(trades, Trade{
			Size:    fill,
			Price:   maker.Price(),
			MakerID: maker.ID(),
			TakerID: takerID,
		})
		remaining -= fill

		if fill == maker.RemainingSize() {
			e.backend.Remove(maker.ID())
		} else {
			e.backend.Resize(maker.ID(), maker.RemainingSize()-fill)
		}
	}

	stored := false
	if remaining > 0 {
		e.seq++
		order, err := NewOrder(takerID, side, size, price, e.seq)
		if err != nil {
			return nil, err
		}
		order.SetRemaining(remaining)
		e.backend.Append(order)
		stored = true
	}

	if len(trades) > 0 {
		otel.GetEngineMetrics().RecordTrades(ctx, int64(len(trades)))
	}

	return &Done{OrderID: takerID, Remaining: remaining, Trades: trades, Stored: stored}, nil
}

// crosses reports whether an incoming order at orderPrice overlaps the
// opposing best price: a bid crosses while its price is >= the best ask,
// an ask while its price is <= the best bid.
func crosses(side Side, orderPrice, bookPrice fpdecimal.Decimal) bool {
	if side == Bid {
		return orderPrice.GreaterThanOrEqual(bookPrice)
	}
	return orderPrice.LessThanOrEqual(bookPrice)
}

// parseSize parses a decimal size string into a positive integer. Zero is
// accepted only on the mutation path, where it is the cancel sentinel.
func parseSize(s string, allowZero bool) (int64, error) {
	size, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidSize
	}

	if size < 0 || (size == 0 && !allowZero) {
		return 0, ErrInvalidSize
	}

	return size, nil
}

func (s Side) opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
