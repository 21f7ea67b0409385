package infra

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("k", 42)

	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Errorf("Get = %v, %v", v, ok)
	}
	if _, ok := c.Get("absent"); ok {
		t.Error("absent key should miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute)
	c.SetWithTTL("k", "v", -time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
}

func TestCacheInvalidateAndFlush(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("invalidated key should miss")
	}

	c.Flush()
	if _, ok := c.Get("b"); ok {
		t.Error("flushed key should miss")
	}
}

func TestRateLimiterGrantsAndRefills(t *testing.T) {
	rl := NewRateLimiter(2, 20*time.Millisecond)

	for i := 0; i < 2; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
	}

	// Bucket is empty; a bounded wait must succeed once tokens refill.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rl.Wait(ctx); err != nil {
		t.Errorf("refill wait failed: %v", err)
	}
}

func TestRateLimiterHonorsCancellation(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Error("Wait on an empty bucket must return the context error")
	}
}
