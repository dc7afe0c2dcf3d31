package store

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// MemoryStore is an in-process Store with the same TTL semantics as the
// Redis backend. Used for tests and single-node development runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   quartz.Clock
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store. A zero ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return NewMemoryStoreWithClock(ttl, quartz.NewReal())
}

// NewMemoryStoreWithClock creates an in-memory store on an injected clock so
// tests can advance time instead of sleeping.
func NewMemoryStoreWithClock(ttl time.Duration, clock quartz.Clock) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: map[string]memoryEntry{},
		ttl:     ttl,
		clock:   clock,
	}
}

func (s *MemoryStore) Load(_ context.Context, roomID string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key(roomID)]
	s.mu.RUnlock()

	if !ok || s.clock.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return entry.data, nil
}

func (s *MemoryStore) Save(_ context.Context, roomID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key(roomID)] = memoryEntry{
		data:      data,
		expiresAt: s.clock.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, roomID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key(roomID)]
	return ok && !s.clock.Now().After(entry.expiresAt), nil
}

func (s *MemoryStore) Delete(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key(roomID))
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
