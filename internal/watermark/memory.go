package watermark

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. It does not survive restarts and
// exists for tests and dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	marks map[string]time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{marks: map[string]time.Time{}}
}

func (s *MemoryStore) Read(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.marks[key]
	return t, ok, nil
}

func (s *MemoryStore) Write(_ context.Context, key string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[key] = t.UTC()
	return nil
}
