package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestLogHelpers_NilLoggerSafe tests that every log helper tolerates a
// nil logger.
func TestLogHelpers_NilLoggerSafe(t *testing.T) {
	err := errors.New("boom")

	assert.NotPanics(t, func() {
		LogInvokeStart(nil, "run", "entry")
		LogInvokeComplete(nil, "run", 1.0, 2)
		LogInvokeError(nil, "run", err, 1.0, "node")
		LogNodeStart(nil, "node", 1)
		LogNodeComplete(nil, "node", 1.0)
		LogNodeError(nil, "node", err)
		LogRouteDecision(nil, "from", "label", "target")
		LogTraceError(nil, "node", err)
	})
}

// TestNoopMetrics tests that the no-op recorder accepts every call.
func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordNodeExecution(ctx, "node", time.Second, nil)
		m.RecordNodeExecution(ctx, "node", time.Second, errors.New("x"))
		m.RecordInvocation(ctx, true, time.Second)
		m.RecordRouteDecision(ctx, "from", "label")
		m.RecordTraceAppend(ctx, "node", 128)
	})
}

// TestNoopSpanManager tests the no-op span lifecycle.
func TestNoopSpanManager(t *testing.T) {
	m := NoopSpanManager{}
	ctx := context.Background()

	spanCtx, span := m.StartInvokeSpan(ctx, "run")
	assert.Equal(t, ctx, spanCtx)

	nodeCtx, nodeSpan := m.StartNodeSpan(spanCtx, "node")
	assert.Equal(t, spanCtx, nodeCtx)

	assert.NotPanics(t, func() {
		m.EndSpanWithError(nodeSpan, errors.New("x"))
		m.EndSpanWithError(span, nil)
		m.AddSpanEvent(ctx, "event")
	})
}

// TestNewMetricsRecorder tests construction against the default (noop)
// global meter provider.
func TestNewMetricsRecorder(t *testing.T) {
	m := NewMetricsRecorder()
	assert.NotNil(t, m)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordNodeExecution(ctx, "node", 5*time.Millisecond, nil)
		m.RecordInvocation(ctx, true, 10*time.Millisecond)
		m.RecordRouteDecision(ctx, "from", "label")
		m.RecordTraceAppend(ctx, "node", 64)
	})
}

// TestNewSpanManager tests span creation against the default (noop)
// global tracer provider.
func TestNewSpanManager(t *testing.T) {
	m := NewSpanManager()

	ctx, span := m.StartInvokeSpan(context.Background(), "run")
	assert.NotNil(t, span)

	_, nodeSpan := m.StartNodeSpan(ctx, "node")
	assert.NotNil(t, nodeSpan)

	assert.NotPanics(t, func() {
		m.EndSpanWithError(nodeSpan, nil)
		m.EndSpanWithError(span, errors.New("x"))
	})
}
