package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records stategraph metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordNodeExecution records one step-function call with its duration
	// and error status.
	RecordNodeExecution(ctx context.Context, nodeID string, duration time.Duration, err error)

	// RecordInvocation records a completed or failed invocation.
	RecordInvocation(ctx context.Context, success bool, duration time.Duration)

	// RecordRouteDecision records a conditional edge decision.
	RecordRouteDecision(ctx context.Context, fromNode, label string)

	// RecordTraceAppend records an execution trace record write.
	RecordTraceAppend(ctx context.Context, nodeID string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	nodeExecutions metric.Int64Counter
	nodeLatency    metric.Float64Histogram
	nodeErrors     metric.Int64Counter
	invocations    metric.Int64Counter
	invokeLatency  metric.Float64Histogram
	routeDecisions metric.Int64Counter
	traceSize      metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the default OTel metrics instance.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("stategraph")

	nodeExecutions, err := meter.Int64Counter("stategraph.node.executions",
		metric.WithDescription("Number of step function executions"),
	)
	if err != nil {
		return nil, err
	}

	nodeLatency, err := meter.Float64Histogram("stategraph.node.latency_ms",
		metric.WithDescription("Step function latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	nodeErrors, err := meter.Int64Counter("stategraph.node.errors",
		metric.WithDescription("Number of step function failures"),
	)
	if err != nil {
		return nil, err
	}

	invocations, err := meter.Int64Counter("stategraph.invocations",
		metric.WithDescription("Number of graph invocations"),
	)
	if err != nil {
		return nil, err
	}

	invokeLatency, err := meter.Float64Histogram("stategraph.invocation.latency_ms",
		metric.WithDescription("Invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	routeDecisions, err := meter.Int64Counter("stategraph.route.decisions",
		metric.WithDescription("Number of conditional edge decisions"),
	)
	if err != nil {
		return nil, err
	}

	traceSize, err := meter.Int64Histogram("stategraph.trace.size_bytes",
		metric.WithDescription("Execution trace record size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		nodeExecutions: nodeExecutions,
		nodeLatency:    nodeLatency,
		nodeErrors:     nodeErrors,
		invocations:    invocations,
		invokeLatency:  invokeLatency,
		routeDecisions: routeDecisions,
		traceSize:      traceSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordNodeExecution records a step function call.
func (m *otelMetrics) RecordNodeExecution(ctx context.Context, nodeID string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("node_id", nodeID),
	}

	m.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.nodeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.nodeErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordInvocation records a graph invocation.
func (m *otelMetrics) RecordInvocation(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.invocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.invokeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordRouteDecision records a conditional edge decision.
func (m *otelMetrics) RecordRouteDecision(ctx context.Context, fromNode, label string) {
	m.routeDecisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_node", fromNode),
		attribute.String("label", label),
	))
}

// RecordTraceAppend records an execution trace write.
func (m *otelMetrics) RecordTraceAppend(ctx context.Context, nodeID string, sizeBytes int64) {
	m.traceSize.Record(ctx, sizeBytes, metric.WithAttributes(
		attribute.String("node_id", nodeID),
	))
}
