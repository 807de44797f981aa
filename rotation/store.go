// Package rotation exchanges a valid refresh token for a fresh access and
// refresh pair exactly once. A consumed refresh token is remembered for its
// remaining lifetime; any later presentation is rejected as replay, which
// is the detection mechanism for stolen-token reuse.
package rotation

import (
	"context"
	"sync"
	"time"
)

// UsedTokenStore remembers consumed single-use tokens by digest.
// MarkUsed must be an atomic check-and-insert: of any number of concurrent
// calls with the same key, exactly one returns true.
type UsedTokenStore interface {
	// MarkUsed records the key for the given lifetime. Returns false if the
	// key was already recorded.
	MarkUsed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// IsUsed reports whether the key is recorded and unexpired.
	IsUsed(ctx context.Context, key string) (bool, error)
}

// MemoryStore is an in-memory UsedTokenStore for tests and single-node
// deployments. Expired entries are dropped lazily.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkUsed implements UsedTokenStore. The check and the insert happen under
// one lock, so two racers on the same key see exactly one true.
func (s *MemoryStore) MarkUsed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if deadline, ok := s.entries[key]; ok && now.Before(deadline) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}

// IsUsed implements UsedTokenStore.
func (s *MemoryStore) IsUsed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if s.now().After(deadline) {
		delete(s.entries, key)
		return false, nil
	}
	return true, nil
}
