package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// MemoryStore is a process-local Store backed by a mutex-guarded map.
//
// State is neither persisted nor shared: a process restart resets all quotas,
// and each instance of a multi-instance deployment keeps an independent
// budget. Use RedisStore when that matters.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Increment implements Store.
func (s *MemoryStore) Increment(key string, windowDur time.Duration) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) > windowDur {
		s.windows[key] = &window{count: 1, start: now}
		return 1, nil
	}
	w.count++
	return w.count, nil
}

// Sweep removes windows that started more than windowDur ago and returns how
// many were removed. The map otherwise grows for the life of the process.
func (s *MemoryStore) Sweep(windowDur time.Duration) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if now.Sub(w.start) > windowDur {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
