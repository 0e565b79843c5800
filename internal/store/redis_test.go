package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

func newTestRedisStore(t *testing.T, prefix string, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisConfig{Address: mr.Addr(), KeyPrefix: prefix, TTL: ttl})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore_PutGet(t *testing.T) {
	s, mr := newTestRedisStore(t, "test:snap:", time.Minute)
	ctx := context.Background()

	id, err := s.Put(ctx, sample())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("id %q is not a uuid: %v", id, err)
	}
	if !mr.Exists("test:snap:" + id) {
		t.Errorf("expected key with prefix, have %v", mr.Keys())
	}
	if ttl := mr.TTL("test:snap:" + id); ttl != time.Minute {
		t.Errorf("ttl: got %v, want %v", ttl, time.Minute)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*got, *sample()) {
		t.Errorf("got %+v, want %+v", *got, *sample())
	}
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	s, mr := newTestRedisStore(t, "", 0)
	id, err := s.Put(context.Background(), sample())
	if err != nil {
		t.Fatal(err)
	}
	keys := mr.Keys()
	if len(keys) != 1 || keys[0] != "droid:snapshot:"+id {
		t.Errorf("keys: %v", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl != 0 {
		t.Errorf("zero TTL should not expire, got %v", ttl)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := newTestRedisStore(t, "", time.Minute)
	ctx := context.Background()
	id, err := s.Put(ctx, sample())
	if err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRedisStore_GetMissing(t *testing.T) {
	s, _ := newTestRedisStore(t, "", 0)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	s, mr := newTestRedisStore(t, "", 0)
	ctx := context.Background()
	id, err := s.Put(ctx, sample())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if len(mr.Keys()) != 0 {
		t.Errorf("key not deleted: %v", mr.Keys())
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Errorf("deleting a missing id should not fail: %v", err)
	}
}

func TestRedisStore_CorruptValue(t *testing.T) {
	s, mr := newTestRedisStore(t, "", 0)
	if err := mr.Set("droid:snapshot:bad", "not json"); err != nil {
		t.Fatal(err)
	}
	_, err := s.Get(context.Background(), "bad")
	if err == nil || !strings.Contains(err.Error(), "decode snapshot") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := newTestRedisStore(t, "", 0)
	mr.Close()
	_, err := s.Get(context.Background(), "x")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected connection error, got %v", err)
	}
}
