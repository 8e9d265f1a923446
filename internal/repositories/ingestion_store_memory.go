package repositories

import (
	"context"
	"sync"
	"time"

	"ingestion-api/internal/models"
)

type memoryEntry struct {
	status    models.IngestionStatus
	expiresAt time.Time
}

// MemoryStatusStore is an in-process StatusStore. It backs tests and
// deployments without Redis configured. Expiry is enforced on read.
type MemoryStatusStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStatusStore) Set(ctx context.Context, jobID string, status *models.IngestionStatus, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Copy so later mutations by the caller don't leak into the store.
	s.entries[jobID] = memoryEntry{
		status:    *status,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStatusStore) Get(ctx context.Context, jobID string) (*models.IngestionStatus, error) {
	s.mu.RLock()
	entry, ok := s.entries[jobID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, jobID)
		s.mu.Unlock()
		return nil, nil
	}

	status := entry.status
	return &status, nil
}

// Delete removes a record outright. Used by tests to simulate eviction
// while a job is mid-flight.
func (s *MemoryStatusStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, jobID)
}
