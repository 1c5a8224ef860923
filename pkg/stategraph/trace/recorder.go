package trace

import "errors"

// Recorder persists execution trace records.
// Implementations must be safe for concurrent use: multiple invocations
// may share one recorder.
type Recorder interface {
	// Append stores a record. Records for one run arrive in step order.
	Append(rec Record) error

	// List returns all records for a run in step order.
	// Returns an empty slice (not an error) for an unknown run.
	List(runID string) ([]Record, error)

	// Runs returns the distinct run IDs with at least one record.
	Runs() ([]string, error)

	// DeleteRun removes all records for a run.
	// Returns nil if the run has no records.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// ErrRecorderClosed indicates the recorder has been closed.
var ErrRecorderClosed = errors.New("trace recorder closed")
