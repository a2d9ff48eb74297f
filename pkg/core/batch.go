package core

import (
	"context"

	"github.com/outcome-gg/outcome-engine/pkg/otel"
	"go.opentelemetry.io/otel/attribute"
)

// BatchProcessor applies a MatchingEngine to an ordered list of requests,
// threading book state between them: a later request in the same batch can
// match against resting orders created or modified by earlier ones.
type BatchProcessor struct {
	engine *MatchingEngine
}

// NewBatchProcessor creates a BatchProcessor over the given engine
func NewBatchProcessor(engine *MatchingEngine) *BatchProcessor {
	return &BatchProcessor{engine: engine}
}

// ProcessMany processes requests strictly in input order. Items are
// isolated: a validation failure is recorded for its slot and the remaining
// items continue against an uncorrupted book. Result collections are
// parallel to the input.
func (b *BatchProcessor) ProcessMany(ctx context.Context, reqs []OrderRequest) *BatchDone {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanProcessBatch,
		attribute.Int(otel.AttributeBatchSize, len(reqs)),
	)
	defer otel.EndSpan(span)

	batch := &BatchDone{
		Successes: make([]bool, 0, len(reqs)),
		OrderIDs:  make([]string, 0, len(reqs)),
		Remaining: make([]int64, 0, len(reqs)),
		Trades:    make([][]Trade, 0, len(reqs)),
		Errs:      make([]error, 0, len(reqs)),
	}

	for _, req := range reqs {
		done, err := b.engine.Process(ctx, req)
		if err != nil {
			batch.Successes = append(batch.Successes, false)
			batch.OrderIDs = append(batch.OrderIDs, req.ID)
			batch.Remaining = append(batch.Remaining, 0)
			batch.Trades = append(batch.Trades, []Trade{})
			batch.Errs = append(batch.Errs, err)
			continue
		}

		batch.Successes = append(batch.Successes, true)
		batch.OrderIDs = append(batch.OrderIDs, done.OrderID)
		batch.Remaining = append(batch.Remaining, done.Remaining)
		batch.Trades = append(batch.Trades, done.Trades)
		batch.Errs = append(batch.Errs, nil)
	}

	return batch
}
