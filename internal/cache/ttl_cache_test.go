package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetMissThenHit(t *testing.T) {
	c := NewTTL[string, int]()
	if _, ok := c.Get("kpis"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("kpis", 42, time.Minute)
	value, ok := c.Get("kpis")
	if !ok || value != 42 {
		t.Fatalf("expected hit with 42, got %d, %v", value, ok)
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	c := NewTTL[string, int]()
	c.Set("kpis", 42, -time.Second)
	c.items["kpis"] = entry[int]{value: 42, expiresAt: time.Now().Add(-time.Second)}
	if _, ok := c.Get("kpis"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestGetOrCompute(t *testing.T) {
	c := NewTTL[string, int]()
	calls := 0
	compute := func() (int, error) {
		calls++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		value, err := c.GetOrCompute("k", time.Minute, compute)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if value != 7 {
			t.Fatalf("expected 7, got %d", value)
		}
	}
	if calls != 1 {
		t.Fatalf("expected compute once, ran %d times", calls)
	}
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	c := NewTTL[string, int]()
	boom := errors.New("boom")
	if _, err := c.GetOrCompute("k", time.Minute, func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("failed compute must not populate the cache")
	}
}

func TestPurge(t *testing.T) {
	c := NewTTL[string, int]()
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Purge()
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected purge to clear entries")
	}
}
