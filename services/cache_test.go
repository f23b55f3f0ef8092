package services

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"questionbank/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// newTestRedisCache connects to REDIS_URL and namespaces every key under a
// fresh prefix, removed again when the test ends.
func newTestRedisCache(t *testing.T) (*RedisQueryCache, *redis.Client) {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis unavailable: %v", err)
	}

	cache := NewRedisQueryCache(client, time.Minute)
	cache.prefix = "questions-test-" + uuid.NewString()

	t.Cleanup(func() {
		ctx := context.Background()
		keys, err := client.Keys(ctx, cache.prefix+":*").Result()
		if err == nil && len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return cache, client
}

func TestRedisQueryCacheLifecycle(t *testing.T) {
	cache, client := newTestRedisCache(t)
	ctx := context.Background()
	filter := QuestionFilter{Subject: "Physics"}
	page := []models.Question{{ID: "1", Question: "q", Options: []string{"a"}, CorrectOption: "0", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}}

	key, _, hit, err := cache.Lookup(ctx, filter)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if hit {
		t.Fatal("empty cache should miss")
	}
	if !strings.HasPrefix(key, cache.prefix+":v0:") {
		t.Errorf("key = %q, want generation 0", key)
	}

	if err := cache.Store(ctx, key, page); err != nil {
		t.Fatalf("store: %v", err)
	}
	if ttl := client.TTL(ctx, key).Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v, want within a minute", ttl)
	}

	_, cached, hit, err := cache.Lookup(ctx, filter)
	if err != nil || !hit {
		t.Fatalf("lookup after store: hit=%v err=%v", hit, err)
	}
	if len(cached) != 1 || cached[0].ID != "1" || !cached[0].CreatedAt.Equal(page[0].CreatedAt) {
		t.Errorf("cached = %+v", cached)
	}

	if _, _, hit, _ := cache.Lookup(ctx, QuestionFilter{Subject: "Chemistry"}); hit {
		t.Error("other filters must not share a page")
	}

	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	newKey, _, hit, err := cache.Lookup(ctx, filter)
	if err != nil {
		t.Fatalf("lookup after invalidate: %v", err)
	}
	if hit {
		t.Fatal("invalidate should drop every cached page")
	}
	if !strings.HasPrefix(newKey, cache.prefix+":v1:") {
		t.Errorf("key = %q, want generation 1", newKey)
	}
}

func TestRedisQueryCacheStaleStoreIsNeverServed(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()
	filter := QuestionFilter{}

	staleKey, _, _, err := cache.Lookup(ctx, filter)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := cache.Store(ctx, staleKey, []models.Question{{ID: "old"}}); err != nil {
		t.Fatalf("store: %v", err)
	}

	if _, _, hit, _ := cache.Lookup(ctx, filter); hit {
		t.Fatal("a page read before invalidation was served after it")
	}
}

func TestRedisQueryCacheCorruptEntry(t *testing.T) {
	cache, client := newTestRedisCache(t)
	ctx := context.Background()
	filter := QuestionFilter{Chapter: "Optics"}

	key, _, _, err := cache.Lookup(ctx, filter)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if err := client.Set(ctx, key, "not json", time.Minute).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, _, hit, err := cache.Lookup(ctx, filter); err == nil || hit {
		t.Fatalf("hit=%v err=%v, want a decode error", hit, err)
	}
}
