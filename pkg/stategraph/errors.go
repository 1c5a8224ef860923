package stategraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph building and compilation.
var (
	// ErrDuplicateNode indicates a node key was registered twice.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownNode indicates an edge or entry point references a node
	// that was never registered.
	ErrUnknownNode = errors.New("unknown node")

	// ErrConflictingEdge indicates a node was given more than one outgoing
	// edge group (a second fixed edge, or both fixed and conditional).
	ErrConflictingEdge = errors.New("conflicting outgoing edge")

	// ErrNoEntryPoint indicates SetEntry was never called before Compile.
	ErrNoEntryPoint = errors.New("entry point not set")

	// ErrEntryRedeclared indicates SetEntry was called more than once.
	ErrEntryRedeclared = errors.New("entry point declared twice")

	// ErrNoOutgoingEdge indicates a node has no outgoing edge group.
	// Every node needs one, even if it only ever routes to END.
	ErrNoOutgoingEdge = errors.New("node has no outgoing edge")
)

// Sentinel errors for execution.
var (
	// ErrUnroutableLabel indicates a router returned a label with no entry
	// in the conditional edge's label mapping.
	ErrUnroutableLabel = errors.New("label not in route mapping")

	// ErrStepLimit indicates an invocation exceeded the hard step ceiling.
	ErrStepLimit = errors.New("exceeded step limit")

	// ErrNilContext indicates Invoke was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")
)

// NodeError wraps a step function failure with the node key and step count
// at which it occurred. The engine never swallows a node failure; it always
// propagates one of these.
type NodeError struct {
	// NodeID is the node that failed.
	NodeID string
	// Step is the per-invocation step count at the failure.
	Step int
	// Op is the operation that failed ("execute" or "merge").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s (step %d): %s: %v", e.NodeID, e.Step, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *NodeError) Unwrap() error {
	return e.Err
}

// RouterError wraps a conditional-edge routing failure: either the router
// function itself failed, or it returned a label absent from the mapping.
type RouterError struct {
	// FromNode is the node whose conditional edge was being resolved.
	FromNode string
	// Label is the label the router returned, if it returned one.
	Label string
	// Step is the per-invocation step count at the failure.
	Step int
	// Err is the underlying error (ErrUnroutableLabel for mapping misses).
	Err error
}

// Error implements the error interface.
func (e *RouterError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("router from %s (step %d) returned %q: %v", e.FromNode, e.Step, e.Label, e.Err)
	}
	return fmt.Sprintf("router from %s (step %d): %v", e.FromNode, e.Step, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RouterError) Unwrap() error {
	return e.Err
}

// StepLimitError is returned when the hard step ceiling is exceeded.
// The ceiling is a backstop against misconfigured routers that never reach
// END; graphs with intentional loops exit through router conditions long
// before hitting it.
type StepLimitError struct {
	// Limit is the configured ceiling.
	Limit int
	// LastNodeID is the node that would have executed next.
	LastNodeID string
}

// Error implements the error interface.
func (e *StepLimitError) Error() string {
	return fmt.Sprintf("exceeded step limit (%d) at node %s", e.Limit, e.LastNodeID)
}

// Unwrap returns ErrStepLimit for errors.Is support.
func (e *StepLimitError) Unwrap() error {
	return ErrStepLimit
}

// PanicError captures a panic from a step or router function, including
// the stack trace at the point of panic.
type PanicError struct {
	// NodeID is the node being executed or routed from.
	NodeID string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace captured in the recover handler.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.Value)
}

// CancellationError is returned when the invocation's context is cancelled.
// The invocation's state is discarded; only the error surfaces.
type CancellationError struct {
	// NodeID is the node that was about to execute.
	NodeID string
	// Step is the per-invocation step count at cancellation.
	Step int
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before node %s (step %d): %v", e.NodeID, e.Step, e.Cause)
}

// Unwrap returns the cancellation cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}
