package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache()

	c.Set("a", "value-a", time.Minute)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected cache hit for key a")
	}
	if got.(string) != "value-a" {
		t.Errorf("expected value-a, got %v", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected cache miss for unknown key")
	}
}

func TestTTLCacheExpiration(t *testing.T) {
	c := NewTTLCache()

	c.Set("short", 1, -time.Second) // 이미 만료된 상태로 저장

	if _, ok := c.Get("short"); ok {
		t.Error("expired item should not be returned")
	}

	cleaned := c.ClearExpired()
	if cleaned == 0 {
		t.Error("expected at least one expired entry to be cleaned")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache after cleanup, got %d items", c.Len())
	}
}

func TestTTLCacheOverwriteKeepsLatest(t *testing.T) {
	c := NewTTLCache()

	c.Set("k", "old", -time.Second)
	c.Set("k", "new", time.Minute)

	// 낡은 힙 항목 정리가 최신 값을 지우면 안 됩니다
	c.ClearExpired()

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit for overwritten key")
	}
	if got.(string) != "new" {
		t.Errorf("expected new value, got %v", got)
	}
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache()

	c.Set("k", 42, time.Minute)
	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Error("deleted key should be gone")
	}
}

func TestTTLCacheClear(t *testing.T) {
	c := NewTTLCache()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d items", c.Len())
	}
}
