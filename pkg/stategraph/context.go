package stategraph

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context provides execution context to step and router functions.
// It extends context.Context with run metadata and a structured logger.
//
// Context is immutable after creation. The executor derives a per-node
// context with the node key set and the logger enriched.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run and node
	// context during execution. Never nil; defaults to slog.Default().
	Logger() *slog.Logger

	// RunID returns the unique identifier for this invocation.
	// Auto-generated if not configured.
	RunID() string

	// NodeID returns the node currently executing, or "" before the
	// first node runs.
	NodeID() string

	// Attempt returns the retry attempt number (1 = first attempt).
	// The engine never retries; this is for step functions that wrap
	// themselves with the retry package.
	Attempt() int
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger  *slog.Logger
	runID   string
	nodeID  string
	attempt int
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// RunID returns the run identifier.
func (c *executionContext) RunID() string {
	return c.runID
}

// NodeID returns the current node identifier.
func (c *executionContext) NodeID() string {
	return c.nodeID
}

// Attempt returns the retry attempt number.
func (c *executionContext) Attempt() int {
	return c.attempt
}

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithLogger sets the logger for the context. The executor enriches it
// with run_id and node_id per node.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContextRunID sets the run identifier. If not set, a UUID is
// generated.
func WithContextRunID(id string) ContextOption {
	return func(c *executionContext) {
		if id != "" {
			c.runID = id
		}
	}
}

// NewContext creates an execution context from a standard context.
// Cancellation and deadlines on ctx propagate: the executor checks for
// cancellation between nodes, and step functions receive the same context
// for their own external calls.
//
// Example:
//
//	ctx := stategraph.NewContext(context.Background(),
//	    stategraph.WithLogger(myLogger))
//	final, err := compiled.Invoke(ctx, initial)
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
		attempt: 1,
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// withNodeID derives a per-node context with an enriched logger. runID is
// the effective run identifier, which the invocation may have overridden
// with WithRunID.
func (c *executionContext) withNodeID(runID, nodeID string) *executionContext {
	return &executionContext{
		Context: c.Context,
		logger:  c.logger.With("run_id", runID, "node_id", nodeID),
		runID:   runID,
		nodeID:  nodeID,
		attempt: c.attempt,
	}
}
