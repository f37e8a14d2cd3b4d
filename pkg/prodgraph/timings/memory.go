package timings

import "sync"

// MemoryStore keeps timing records in memory.
// It is intended for tests and short-lived processes.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

// Save implements Store.
func (s *MemoryStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.records[rec.ComponentID] = append(s.records[rec.ComponentID], rec)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(componentID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	recs := s.records[componentID]
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}

// ComponentIDs returns the IDs of every component with stored records.
// Order is unspecified.
func (s *MemoryStore) ComponentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids
}

// Delete implements Store.
func (s *MemoryStore) Delete(componentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	delete(s.records, componentID)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}
