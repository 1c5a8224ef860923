// Package event provides an in-process pub/sub stream of execution
// lifecycle events: invocation start and end, node execution, and
// conditional route decisions.
//
// Events are observability data. Handlers run on their own goroutines and
// cannot influence the executor; a slow or failing subscriber never blocks
// or fails an invocation.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event types published by the executor.
const (
	TypeInvokeStarted   = "invoke.started"
	TypeInvokeCompleted = "invoke.completed"
	TypeInvokeFailed    = "invoke.failed"
	TypeNodeStarted     = "node.started"
	TypeNodeCompleted   = "node.completed"
	TypeNodeFailed      = "node.failed"
	TypeRouteDecided    = "route.decided"
)

// Event is one execution lifecycle occurrence. Events are immutable once
// published.
type Event struct {
	// ID is the unique event identifier.
	ID string `json:"id"`
	// Type is one of the Type constants.
	Type string `json:"type"`
	// RunID identifies the invocation the event belongs to.
	RunID string `json:"run_id"`
	// NodeID is the node involved, when the event concerns a node.
	NodeID string `json:"node_id,omitempty"`
	// Step is the per-invocation step count when the event occurred.
	Step int `json:"step,omitempty"`
	// Label is the route label for TypeRouteDecided events.
	Label string `json:"label,omitempty"`
	// Target is the chosen next node for TypeRouteDecided events.
	Target string `json:"target,omitempty"`
	// Err is the error message for failure events.
	Err string `json:"error,omitempty"`
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event of the given type for a run.
func New(eventType, runID string) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
	}
}

// WithNode sets the node and step the event concerns.
func (e Event) WithNode(nodeID string, step int) Event {
	e.NodeID = nodeID
	e.Step = step
	return e
}

// WithRoute sets the route label and target for a routing event.
func (e Event) WithRoute(label, target string) Event {
	e.Label = label
	e.Target = target
	return e
}

// WithError sets the failure message for a failure event.
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Err = err.Error()
	}
	return e
}
