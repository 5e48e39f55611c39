package cartsync

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := testRedis(t)
	store := NewRedisStore(rdb, uuid.NewString(), time.Minute)
	t.Cleanup(func() { store.Clear(ctx) })

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}

	if err := store.Save(ctx, "c1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	id, ok, err := store.Load(ctx)
	if err != nil || !ok || id != "c1" {
		t.Fatalf("Load after save: id=%q ok=%v err=%v", id, ok, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := store.Load(ctx); ok {
		t.Fatal("expected cleared store")
	}
}

func TestRedisStoreScopesBySession(t *testing.T) {
	ctx := context.Background()
	rdb := testRedis(t)
	a := NewRedisStore(rdb, uuid.NewString(), time.Minute)
	b := NewRedisStore(rdb, uuid.NewString(), time.Minute)
	t.Cleanup(func() {
		a.Clear(ctx)
		b.Clear(ctx)
	})

	if err := a.Save(ctx, "c1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, err := b.Load(ctx); err != nil || ok {
		t.Fatalf("session b sees session a's cart id, ok=%v err=%v", ok, err)
	}
}
