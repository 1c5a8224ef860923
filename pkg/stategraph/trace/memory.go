package trace

import (
	"sort"
	"sync"
)

// MemoryRecorder is an in-memory trace recorder. Data is lost when the
// process exits; suitable for tests and short-lived tooling.
type MemoryRecorder struct {
	mu     sync.RWMutex
	runs   map[string][]Record
	closed bool
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		runs: make(map[string][]Record),
	}
}

// Append implements Recorder.
func (m *MemoryRecorder) Append(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrRecorderClosed
	}

	// Copy the state bytes to avoid retaining the caller's buffer.
	if rec.State != nil {
		state := make([]byte, len(rec.State))
		copy(state, rec.State)
		rec.State = state
	}

	m.runs[rec.RunID] = append(m.runs[rec.RunID], rec)
	return nil
}

// List implements Recorder.
func (m *MemoryRecorder) List(runID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrRecorderClosed
	}

	records := m.runs[runID]
	out := make([]Record, len(records))
	copy(out, records)
	return out, nil
}

// Runs implements Recorder.
func (m *MemoryRecorder) Runs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrRecorderClosed
	}

	ids := make([]string, 0, len(m.runs))
	for id := range m.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteRun implements Recorder.
func (m *MemoryRecorder) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrRecorderClosed
	}

	delete(m.runs, runID)
	return nil
}

// Close implements Recorder.
func (m *MemoryRecorder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	return nil
}

// Len returns the total number of records across all runs.
// Useful for testing.
func (m *MemoryRecorder) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, records := range m.runs {
		count += len(records)
	}
	return count
}
