package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCacheGetMiss(t *testing.T) {
	c, _ := newTestRedis(t, "")

	data, hit, err := c.Get(context.Background(), "http:companieshouse:/company/1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get() on empty redis = %q, %v; want miss", data, hit)
	}
}

func TestRedisCacheSetGet(t *testing.T) {
	c, mr := newTestRedis(t, "")
	ctx := context.Background()
	key := "http:companieshouse:/company/00000006"

	if err := c.Set(ctx, key, []byte(`{"company_name":"TEST LTD"}`), time.Hour); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("Get() = hit %v, err %v; want hit", hit, err)
	}
	if string(data) != `{"company_name":"TEST LTD"}` {
		t.Errorf("Get() = %s", data)
	}

	if !mr.Exists(DefaultRedisPrefix + key) {
		t.Errorf("key should be stored under the %q prefix; keys = %v", DefaultRedisPrefix, mr.Keys())
	}
	if ttl := mr.TTL(DefaultRedisPrefix + key); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}
}

func TestRedisCacheTTL(t *testing.T) {
	c, mr := newTestRedis(t, "")
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(DefaultRedisPrefix + "forever"); ttl != 0 {
		t.Errorf("zero ttl should store without expiry, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("entry should have expired")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should survive")
	}
}

func TestRedisCacheDelete(t *testing.T) {
	c, _ := newTestRedis(t, "")
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete() of a missing key error: %v", err)
	}
}

func TestRedisCacheClear(t *testing.T) {
	c, mr := newTestRedis(t, "chouse-test:")
	ctx := context.Background()

	const n = 250
	for i := range n {
		if err := c.Set(ctx, fmt.Sprintf("http:companieshouse:/company/%08d", i), []byte("{}"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if err := mr.Set("other-app:key", "keep"); err != nil {
		t.Fatal(err)
	}

	count, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if count != n {
		t.Errorf("Clear() = %d, want %d", count, n)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "other-app:key" {
		t.Errorf("keys after Clear() = %v, want only other-app:key", keys)
	}

	if count, err := c.Clear(ctx); err != nil || count != 0 {
		t.Errorf("second Clear() = %d, %v; want 0, nil", count, err)
	}
}

func TestRedisCacheServerError(t *testing.T) {
	c, mr := newTestRedis(t, "")
	mr.SetError("ERR injected failure")

	if _, hit, err := c.Get(context.Background(), "k"); err == nil || hit {
		t.Errorf("Get() = hit %v, err %v; want error", hit, err)
	}
	if err := c.Set(context.Background(), "k", []byte("v"), 0); err == nil {
		t.Error("Set() should report server errors")
	}
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: "p:"})
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	if err := c.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("p:k") {
		t.Errorf("keys = %v, want p:k", mr.Keys())
	}
}
