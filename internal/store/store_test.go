package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mj1618/droid-cli/internal/model"
)

func sample() *model.Snapshot {
	snap := model.NewSnapshot("login.xml", "2024-03-15T09:30:00Z", []model.Element{
		{Kind: model.KindButton, Clickable: true, Text: "Accedi", Label: "Accedi", Rect: model.NewRect(100, 500, 900, 600)},
	})
	return &snap
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	id, err := s.Put(ctx, sample())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("id %q is not a UUID: %v", id, err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.SourceName != "login.xml" || len(got.Elements) != 1 {
		t.Errorf("got %+v", got)
	}

	got.Elements[0].Label = "changed"
	again, _ := s.Get(ctx, id)
	if again.Elements[0].Label != "Accedi" {
		t.Error("stored snapshot must not be mutable through Get results")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	id, _ := s.Put(ctx, sample())
	now = now.Add(59 * time.Second)
	if _, err := s.Get(ctx, id); err != nil {
		t.Fatalf("should still be live: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expiry, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expired entries should be evicted, len=%d", s.Len())
	}
}

func TestMemoryStore_DeleteAndClose(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	a, _ := s.Put(ctx, sample())
	s.Put(ctx, sample())

	if err := s.Delete(ctx, a); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("len after delete: %d", s.Len())
	}
	s.Close()
	if s.Len() != 0 {
		t.Errorf("len after close: %d", s.Len())
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	var wg sync.WaitGroup
	ids := make([]string, 32)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.Put(ctx, sample())
			if err != nil {
				t.Error(err)
				return
			}
			ids[i] = id
			if _, err := s.Get(ctx, id); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
	if s.Len() != len(ids) {
		t.Errorf("len: got %d, want %d", s.Len(), len(ids))
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryStore(0).Put(ctx, sample()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewRedisStore_Errors(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), RedisConfig{}); err == nil {
		t.Error("empty address should fail")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := NewRedisStore(ctx, RedisConfig{Address: "127.0.0.1:1"}); err == nil {
		t.Error("unreachable redis should fail")
	}
}

func TestDecodeSnapshot(t *testing.T) {
	snap, err := decodeSnapshot([]byte(`{"sourceName":"a.xml","timestamp":"t","buttonCount":0,"inputCount":0,"elements":null}`))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Elements == nil {
		t.Error("elements should be an empty list")
	}
	if _, err := decodeSnapshot([]byte("not json")); err == nil {
		t.Error("expected error")
	}
}
