// Package timings provides persistent storage for producer timing
// samples recorded by the monitoring layer.
package timings

import (
	"errors"
	"time"
)

// Outcome values for a timing record.
const (
	OutcomeMethod  = "method"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkip    = "skip"
)

// Record is one timing sample for one producer in one graph instance.
type Record struct {
	// ComponentID identifies the graph instance the sample belongs to.
	ComponentID string
	// Producer is the producer token name.
	Producer string
	// Outcome is one of the Outcome constants.
	Outcome string
	// StartedNanos is when the method started, relative to the
	// component epoch. Only set for method samples.
	StartedNanos int64
	// DurationNanos is the method execution time for method samples,
	// or the request-to-resolution latency for success/failure samples.
	DurationNanos int64
	// Error holds the failure message for failure and skip samples.
	Error string
	// Timestamp is when the sample was recorded.
	Timestamp time.Time
}

// Store persists timing records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores one timing record.
	Save(rec Record) error

	// List returns all records for a component, ordered by timestamp.
	// Returns an empty slice (not an error) if the component has none.
	List(componentID string) ([]Record, error)

	// Delete removes all records for a component.
	// Returns nil if the component has no records.
	Delete(componentID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("timing store closed")
