// Package trace records the execution trace of an invocation: the ordered
// sequence of nodes actually visited, with the merged state after each.
//
// Traces are append-only observability data. The engine writes them when a
// Recorder is configured and never reads them back; they exist for
// debugging, auditing, and offline analysis of workflow behavior.
package trace

import (
	"encoding/json"
	"time"
)

// Record is one visited node in an execution trace.
type Record struct {
	// RunID identifies the invocation.
	RunID string `json:"run_id"`
	// Step is the 1-based position of this record within the run.
	Step int `json:"step"`
	// NodeID is the node that executed.
	NodeID string `json:"node_id"`
	// Next is the node chosen after this one, or the terminal marker.
	Next string `json:"next"`
	// Label is the route label, when the transition was conditional.
	Label string `json:"label,omitempty"`
	// State is the merged state after the node, serialized as JSON.
	State json.RawMessage `json:"state"`
	// Timestamp is when the node completed.
	Timestamp time.Time `json:"timestamp"`
	// DurationMs is the node execution time in milliseconds.
	DurationMs float64 `json:"duration_ms"`
}

// New creates a record for a visited node. State must already be
// JSON-serialized.
func New(runID string, step int, nodeID, next string, state []byte) Record {
	return Record{
		RunID:     runID,
		Step:      step,
		NodeID:    nodeID,
		Next:      next,
		State:     state,
		Timestamp: time.Now().UTC(),
	}
}

// WithLabel sets the conditional route label.
func (r Record) WithLabel(label string) Record {
	r.Label = label
	return r
}

// WithDuration sets the node execution duration.
func (r Record) WithDuration(d time.Duration) Record {
	r.DurationMs = float64(d.Microseconds()) / 1000
	return r
}

// Marshal serializes the record to JSON.
func (r Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal deserializes a record from JSON.
func Unmarshal(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}
