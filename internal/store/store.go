// Package store keeps extracted snapshots addressable by id so MCP clients
// can fetch and diff them later.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mj1618/droid-cli/internal/model"
)

// ErrNotFound is returned for unknown or expired ids.
var ErrNotFound = errors.New("snapshot not found")

// Store saves snapshots under generated ids.
type Store interface {
	Put(ctx context.Context, snap *model.Snapshot) (string, error)
	Get(ctx context.Context, id string) (*model.Snapshot, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// entry holds a stored snapshot with its expiry.
type entry struct {
	snap    model.Snapshot
	expires time.Time
}

// MemoryStore is a process-local Store with TTL expiry. A ttl of 0 keeps
// snapshots until deleted.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, snap *model.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	e := entry{snap: copySnapshot(snap)}
	now := s.now()
	if s.ttl > 0 {
		e.expires = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired(now)
	s.entries[id] = e
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.expired(s.now()) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	snap := copySnapshot(&e.snap)
	return &snap, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Len returns the number of live snapshots.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired(s.now())
	return len(s.entries)
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	return nil
}

// evictExpired must be called with mu held.
func (s *MemoryStore) evictExpired(now time.Time) {
	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
		}
	}
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// copySnapshot detaches the element slice so callers cannot mutate stored data.
func copySnapshot(snap *model.Snapshot) model.Snapshot {
	c := *snap
	c.Elements = append([]model.Element{}, snap.Elements...)
	return c
}
