package trace

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteRecorder persists execution traces to SQLite.
// Suitable for single-process production use.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteRecorder creates a SQLite-backed trace recorder.
// The path should be a file path (e.g. "./traces.db") or ":memory:" for
// testing.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trace_records (
			run_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			node_id TEXT NOT NULL,
			next TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			state BLOB NOT NULL,
			timestamp TEXT NOT NULL,
			duration_ms REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, step)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_trace_records_run_id
		ON trace_records(run_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

// Append implements Recorder.
func (s *SQLiteRecorder) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrRecorderClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO trace_records (run_id, step, node_id, next, label, state, timestamp, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, step) DO UPDATE SET
			node_id = excluded.node_id,
			next = excluded.next,
			label = excluded.label,
			state = excluded.state,
			timestamp = excluded.timestamp,
			duration_ms = excluded.duration_ms
	`, rec.RunID, rec.Step, rec.NodeID, rec.Next, rec.Label, []byte(rec.State),
		rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.DurationMs)

	if err != nil {
		return fmt.Errorf("append trace record: %w", err)
	}
	return nil
}

// List implements Recorder.
func (s *SQLiteRecorder) List(runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrRecorderClosed
	}

	rows, err := s.db.Query(`
		SELECT step, node_id, next, label, state, timestamp, duration_ms
		FROM trace_records
		WHERE run_id = ?
		ORDER BY step
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list trace records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec := Record{RunID: runID}
		var timestamp string
		if err := rows.Scan(&rec.Step, &rec.NodeID, &rec.Next, &rec.Label,
			(*[]byte)(&rec.State), &timestamp, &rec.DurationMs); err != nil {
			return nil, fmt.Errorf("scan trace record: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace records: %w", err)
	}

	return records, nil
}

// Runs implements Recorder.
func (s *SQLiteRecorder) Runs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrRecorderClosed
	}

	rows, err := s.db.Query(`
		SELECT DISTINCT run_id FROM trace_records ORDER BY run_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return ids, nil
}

// DeleteRun implements Recorder.
func (s *SQLiteRecorder) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrRecorderClosed
	}

	_, err := s.db.Exec(`
		DELETE FROM trace_records WHERE run_id = ?
	`, runID)
	if err != nil {
		return fmt.Errorf("delete run trace: %w", err)
	}
	return nil
}

// Close implements Recorder.
func (s *SQLiteRecorder) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
