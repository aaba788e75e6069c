package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Minute, BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute}, nil), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, KeySummary); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if stored, err := c.SetIfGeneration(ctx, KeySummary, []byte(`{"totals":{}}`), 0); err != nil || !stored {
		t.Fatalf("set: stored=%v err=%v", stored, err)
	}
	got, ok, err := c.Get(ctx, KeySummary)
	if err != nil || !ok || string(got) != `{"totals":{}}` {
		t.Fatalf("unexpected get result %q ok=%v err=%v", got, ok, err)
	}

	if ttl := mr.TTL(KeyPrefix + KeySummary); ttl != time.Minute {
		t.Fatalf("expected 1m TTL, got %s", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, KeySummary); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestRedisCacheInvalidateAllKeepsForeignKeys(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{KeySummary, KeyLeadConversion, KeyProperty} {
		if _, err := c.SetIfGeneration(ctx, key, []byte("x"), 0); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if err := mr.Set("asynq:other", "keep"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := c.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	for _, key := range []string{KeySummary, KeyLeadConversion, KeyProperty} {
		if mr.Exists(KeyPrefix + key) {
			t.Fatalf("expected %s to be removed", key)
		}
	}
	if !mr.Exists("asynq:other") {
		t.Fatal("expected unrelated key to survive")
	}
}

func TestRedisCacheRejectsWritesFromBeforeInvalidation(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	before, err := c.Generation(ctx)
	if err != nil || before != 0 {
		t.Fatalf("expected generation 0, got %d err=%v", before, err)
	}

	if err := c.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	after, err := c.Generation(ctx)
	if err != nil || after != before+1 {
		t.Fatalf("expected generation %d, got %d err=%v", before+1, after, err)
	}
	if !mr.Exists(GenerationKey) {
		t.Fatal("expected generation counter to survive invalidation")
	}

	stored, err := c.SetIfGeneration(ctx, KeySummary, []byte("stale"), before)
	if err != nil {
		t.Fatalf("set stale: %v", err)
	}
	if stored || mr.Exists(KeyPrefix+KeySummary) {
		t.Fatal("expected report from an older generation to be dropped")
	}

	stored, err = c.SetIfGeneration(ctx, KeySummary, []byte("fresh"), after)
	if err != nil || !stored {
		t.Fatalf("expected current generation to store, stored=%v err=%v", stored, err)
	}
	if got, _ := mr.Get(KeyPrefix + KeySummary); got != "fresh" {
		t.Fatalf("expected fresh entry, got %q", got)
	}
}

func TestRedisCacheBreakerOpensOnOutage(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	for i := 0; i < 2; i++ {
		if _, _, err := c.Get(ctx, KeySummary); err == nil {
			t.Fatalf("call %d: expected error with redis down", i)
		}
	}

	_, _, err := c.Get(ctx, KeySummary)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker error, got %v", err)
	}
}

func TestNoopCache(t *testing.T) {
	var c Cache = Noop{}
	if stored, err := c.SetIfGeneration(context.Background(), KeySummary, []byte("x"), 0); stored || err != nil {
		t.Fatalf("expected noop set, got stored=%v err=%v", stored, err)
	}
	if _, ok, err := c.Get(context.Background(), KeySummary); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}
