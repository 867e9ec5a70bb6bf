// Package testutil provides in-memory collaborators for use case tests.
package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fammo-app/fammo/internal/domain/shared"
)

var _ shared.PendingStore = (*MemoryPendingStore)(nil)

type pendingEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryPendingStore mirrors the Redis store: JSON values, expiry, one-time Take.
type MemoryPendingStore struct {
	mu      sync.Mutex
	entries map[string]pendingEntry
	Now     func() time.Time
	PutErr  error
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{entries: make(map[string]pendingEntry), Now: time.Now}
}

func (s *MemoryPendingStore) Put(_ context.Context, kind, key string, value any, ttl time.Duration) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[kind+":"+key] = pendingEntry{data: data, expiresAt: s.Now().Add(ttl)}
	return nil
}

func (s *MemoryPendingStore) Take(ctx context.Context, kind, key string, dest any) error {
	return s.read(kind, key, dest, true)
}

func (s *MemoryPendingStore) Peek(ctx context.Context, kind, key string, dest any) error {
	return s.read(kind, key, dest, false)
}

func (s *MemoryPendingStore) Delete(_ context.Context, kind, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, kind+":"+key)
	return nil
}

// Has reports whether a live record exists.
func (s *MemoryPendingStore) Has(kind, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[kind+":"+key]
	return ok && s.Now().Before(e.expiresAt)
}

func (s *MemoryPendingStore) read(kind, key string, dest any, remove bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := kind + ":" + key
	e, ok := s.entries[k]
	if !ok || !s.Now().Before(e.expiresAt) {
		delete(s.entries, k)
		return shared.ErrPendingNotFound
	}
	if remove {
		delete(s.entries, k)
	}
	return json.Unmarshal(e.data, dest)
}
