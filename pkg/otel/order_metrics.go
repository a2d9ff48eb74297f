package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	engineMetrics *EngineMetrics
	meter         = otel.GetMeterProvider().Meter(instrumentationName)
)

// EngineMetrics holds metrics for matching engine operations
type EngineMetrics struct {
	ordersProcessedTotal metric.Int64Counter
	tradesTotal          metric.Int64Counter
	processDuration      metric.Float64Histogram
}

// GetEngineMetrics returns the EngineMetrics singleton
func GetEngineMetrics() *EngineMetrics {
	if engineMetrics == nil {
		ordersProcessedTotal, err := meter.Int64Counter(
			"engine.orders_processed.total",
			metric.WithDescription("Total number of order requests processed"),
			metric.WithUnit("{order}"),
		)
		if err != nil {
			return &EngineMetrics{}
		}

		tradesTotal, err := meter.Int64Counter(
			"engine.trades.total",
			metric.WithDescription("Total number of trades produced"),
			metric.WithUnit("{trade}"),
		)
		if err != nil {
			return &EngineMetrics{}
		}

		processDuration, err := meter.Float64Histogram(
			"engine.process.duration",
			metric.WithDescription("Time spent processing one order request"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return &EngineMetrics{}
		}

		engineMetrics = &EngineMetrics{
			ordersProcessedTotal: ordersProcessedTotal,
			tradesTotal:          tradesTotal,
			processDuration:      processDuration,
		}
	}

	return engineMetrics
}

// RecordOrderProcessed increments the processed orders counter
func (m *EngineMetrics) RecordOrderProcessed(ctx context.Context, tradeCount int) {
	if m.ordersProcessedTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("order.matched", tradeCount > 0),
	}
	m.ordersProcessedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordTrades increments the trades counter
func (m *EngineMetrics) RecordTrades(ctx context.Context, count int64) {
	if m.tradesTotal == nil {
		return
	}
	m.tradesTotal.Add(ctx, count)
}

// RecordProcessDuration records the wall time of one Process call
func (m *EngineMetrics) RecordProcessDuration(ctx context.Context, millis float64) {
	if m.processDuration == nil {
		return
	}
	m.processDuration.Record(ctx, millis)
}
