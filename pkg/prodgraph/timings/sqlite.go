package timings

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists timing records to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite timing store.
// The path should be a file path (e.g., "./timings.db") or ":memory:"
// for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS timings (
			component_id TEXT NOT NULL,
			producer TEXT NOT NULL,
			outcome TEXT NOT NULL,
			started_nanos INTEGER NOT NULL,
			duration_nanos INTEGER NOT NULL,
			error TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_timings_component_id
		ON timings(component_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO timings
			(component_id, producer, outcome, started_nanos, duration_nanos, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ComponentID, rec.Producer, rec.Outcome, rec.StartedNanos,
		rec.DurationNanos, rec.Error, rec.Timestamp.UTC().Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("save timing record: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(componentID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT component_id, producer, outcome, started_nanos, duration_nanos, error, timestamp
		FROM timings
		WHERE component_id = ?
		ORDER BY timestamp
	`, componentID)
	if err != nil {
		return nil, fmt.Errorf("list timing records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var ts string
		if err := rows.Scan(&rec.ComponentID, &rec.Producer, &rec.Outcome,
			&rec.StartedNanos, &rec.DurationNanos, &rec.Error, &ts); err != nil {
			return nil, fmt.Errorf("scan timing record: %w", err)
		}
		rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list timing records: %w", err)
	}
	return records, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(componentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM timings WHERE component_id = ?`, componentID); err != nil {
		return fmt.Errorf("delete timing records: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
