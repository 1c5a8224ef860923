package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Used when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordNodeExecution does nothing.
func (NoopMetrics) RecordNodeExecution(_ context.Context, _ string, _ time.Duration, _ error) {}

// RecordInvocation does nothing.
func (NoopMetrics) RecordInvocation(_ context.Context, _ bool, _ time.Duration) {}

// RecordRouteDecision does nothing.
func (NoopMetrics) RecordRouteDecision(_ context.Context, _, _ string) {}

// RecordTraceAppend does nothing.
func (NoopMetrics) RecordTraceAppend(_ context.Context, _ string, _ int64) {}

// NoopSpanManager is a SpanManager that does nothing.
// Used when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan comes from the OTel noop package for a proper no-op span.
var noopSpan = noop.Span{}

// StartInvokeSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartInvokeSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartNodeSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartNodeSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
