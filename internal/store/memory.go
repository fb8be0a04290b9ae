package store

import (
	"sync"
	"time"

	"github.com/i474232898/weather-history/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory history store. It backs the
// HTTP server when no JSON file is configured.
type MemoryStore struct {
	mu sync.RWMutex

	records []HistoryRecord

	// max number of records kept; oldest are dropped first
	maxHistory int

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		now:        time.Now,
	}
}

// Save appends a record for w and enforces retention.
func (s *MemoryStore) Save(w weather.Weather) error {
	rec := newRecord(s.now(), w)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)

	if s.maxHistory > 0 && len(s.records) > s.maxHistory {
		over := len(s.records) - s.maxHistory
		s.records = append([]HistoryRecord(nil), s.records[over:]...)
	}
	return nil
}

// Records returns a copy of the stored records, oldest first.
func (s *MemoryStore) Records() ([]HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]HistoryRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}
