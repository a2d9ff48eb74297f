package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Span names
	SpanProcessOrder = "process_order"
	SpanProcessBatch = "process_batch"
	SpanForwardDone  = "forward_done"

	// Attribute keys
	AttributeOrderID       = "order.id"
	AttributeOrderIsBid    = "order.is_bid"
	AttributeOrderSize     = "order.size"
	AttributeOrderPrice    = "order.price"
	AttributeRemainingSize = "order.remaining_size"
	AttributeTradeCount    = "trade.count"
	AttributeBatchSize     = "batch.size"
	AttributeMarket        = "market"
)

// StartOrderSpan starts a new span for order processing. When tracing is not
// initialized the returned span is nil and the other helpers are no-ops.
func StartOrderSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := GetEngineTracer()
	if tracer == nil {
		return ctx, nil
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddAttributes adds attributes to a span
func AddAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
}

// SetSpanStatus sets the status of a span
func SetSpanStatus(span trace.Span, code codes.Code, msg string) {
	if span == nil {
		return
	}
	span.SetStatus(code, msg)
}

// EndSpan ends a span
func EndSpan(span trace.Span) {
	if span == nil {
		return
	}
	span.End()
}
