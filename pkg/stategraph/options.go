package stategraph

import (
	"github.com/jmallon/stategraph/pkg/stategraph/event"
	"github.com/jmallon/stategraph/pkg/stategraph/observability"
	"github.com/jmallon/stategraph/pkg/stategraph/trace"
)

// DefaultStepLimit is the hard ceiling on node executions per invocation.
// It is a backstop against misconfigured routers, independent of any
// caller-tracked iteration fields in state.
const DefaultStepLimit = 1000

// invokeConfig holds per-invocation configuration.
type invokeConfig struct {
	stepLimit      int
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
	recorder       trace.Recorder
	traceFatal     bool
	bus            event.Bus
	runID          string
}

// defaultInvokeConfig returns the default invocation configuration.
func defaultInvokeConfig() invokeConfig {
	return invokeConfig{
		stepLimit: DefaultStepLimit,
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
	}
}

// InvokeOption configures one invocation.
type InvokeOption func(*invokeConfig)

// WithStepLimit sets the hard step ceiling. Default: DefaultStepLimit.
// Exceeding it fails the invocation with ErrStepLimit; it is a safety
// bound, not a loop-control mechanism; loop exits belong in router
// conditions over state.
func WithStepLimit(n int) InvokeOption {
	return func(c *invokeConfig) {
		if n > 0 {
			c.stepLimit = n
		}
	}
}

// WithMetrics sets the metrics recorder. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) InvokeOption {
	return func(c *invokeConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans for the invocation and each
// node execution, using the given span manager.
func WithTracing(spans observability.SpanManager) InvokeOption {
	return func(c *invokeConfig) {
		if spans != nil {
			c.spans = spans
			c.tracingEnabled = true
		}
	}
}

// WithRecorder sets an execution trace recorder. One record is appended
// per visited node, after its update is merged and its route decided.
// Recording failures are logged and do not fail the invocation unless
// WithTraceFatal is also set.
func WithRecorder(r trace.Recorder) InvokeOption {
	return func(c *invokeConfig) {
		c.recorder = r
	}
}

// WithTraceFatal makes trace recording failures abort the invocation.
func WithTraceFatal() InvokeOption {
	return func(c *invokeConfig) {
		c.traceFatal = true
	}
}

// WithEventBus publishes execution lifecycle events to the bus.
func WithEventBus(b event.Bus) InvokeOption {
	return func(c *invokeConfig) {
		c.bus = b
	}
}

// WithRunID overrides the run identifier for this invocation.
// Defaults to the context's run ID.
func WithRunID(id string) InvokeOption {
	return func(c *invokeConfig) {
		c.runID = id
	}
}
