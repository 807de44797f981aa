// Package revocation records explicitly revoked tokens until their natural
// expiry. The registry is consulted by the token verifier on every access
// verification; entries become forgettable the moment the underlying token
// would have expired anyway.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Store is the backing key-value contract for revocation entries.
// Keys are token digests; values are irrelevant, only presence matters.
// Implementations must treat entries past their TTL as absent.
type Store interface {
	// Put records the key for the given lifetime.
	Put(ctx context.Context, key string, ttl time.Duration) error
	// Has reports whether the key is present and unexpired.
	Has(ctx context.Context, key string) (bool, error)
}

// MemoryStore is an in-memory Store for tests and single-node deployments.
// Expired entries are dropped lazily on read and on insert.
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

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[key] = s.now().Add(ttl)
	return nil
}

// Has implements Store.
func (s *MemoryStore) Has(_ context.Context, key string) (bool, error) {
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

// Len returns the number of live entries, sweeping expired ones first.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.entries)
}

// sweepLocked drops expired entries. Callers hold s.mu.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for key, deadline := range s.entries {
		if now.After(deadline) {
			delete(s.entries, key)
		}
	}
}
