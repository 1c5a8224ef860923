package stategraph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNodeError_Message tests the error string format.
func TestNodeError_Message(t *testing.T) {
	err := &NodeError{
		NodeID: "fetch",
		Step:   3,
		Op:     "execute",
		Err:    errors.New("timeout"),
	}
	assert.Equal(t, "node fetch (step 3): execute: timeout", err.Error())
}

// TestNodeError_Unwrap tests that the cause is reachable with errors.Is.
func TestNodeError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &NodeError{NodeID: "a", Step: 1, Op: "execute", Err: cause}
	assert.ErrorIs(t, err, cause)
}

// TestRouterError_Message tests both message forms.
func TestRouterError_Message(t *testing.T) {
	withLabel := &RouterError{
		FromNode: "evaluate",
		Label:    "sideways",
		Step:     2,
		Err:      ErrUnroutableLabel,
	}
	assert.Equal(t, `router from evaluate (step 2) returned "sideways": label not in route mapping`, withLabel.Error())

	withoutLabel := &RouterError{
		FromNode: "evaluate",
		Step:     2,
		Err:      errors.New("boom"),
	}
	assert.Equal(t, "router from evaluate (step 2): boom", withoutLabel.Error())
}

// TestRouterError_Unwrap tests sentinel matching through the wrapper.
func TestRouterError_Unwrap(t *testing.T) {
	err := &RouterError{FromNode: "a", Label: "x", Err: ErrUnroutableLabel}
	assert.ErrorIs(t, err, ErrUnroutableLabel)
}

// TestStepLimitError tests message and sentinel unwrap.
func TestStepLimitError(t *testing.T) {
	err := &StepLimitError{Limit: 1000, LastNodeID: "loop"}
	assert.Equal(t, "exceeded step limit (1000) at node loop", err.Error())
	assert.ErrorIs(t, err, ErrStepLimit)
}

// TestPanicError_Message tests the panic wrapper.
func TestPanicError_Message(t *testing.T) {
	err := &PanicError{NodeID: "boom", Value: "oops", Stack: "stack trace"}
	assert.Equal(t, "node boom panicked: oops", err.Error())
}

// TestCancellationError tests message and cause unwrap.
func TestCancellationError(t *testing.T) {
	err := &CancellationError{
		NodeID: "b",
		Step:   1,
		Cause:  context.Canceled,
	}
	assert.Equal(t, "cancelled before node b (step 1): context canceled", err.Error())
	assert.ErrorIs(t, err, context.Canceled)
}

// TestSentinels_Distinct tests that the sentinel errors do not alias.
func TestSentinels_Distinct(t *testing.T) {
	sentinels := []error{
		ErrDuplicateNode,
		ErrUnknownNode,
		ErrConflictingEdge,
		ErrNoEntryPoint,
		ErrEntryRedeclared,
		ErrNoOutgoingEdge,
		ErrUnroutableLabel,
		ErrStepLimit,
		ErrNilContext,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}
