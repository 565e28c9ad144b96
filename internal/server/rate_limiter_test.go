package server

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	if !rl.Allow("client-a") || !rl.Allow("client-a") {
		t.Fatal("expected first two requests to pass")
	}
	if rl.Allow("client-a") {
		t.Fatal("expected third request to be limited")
	}
	// Other clients are tracked independently.
	if !rl.Allow("client-b") {
		t.Fatal("expected separate client to pass")
	}
}

func TestRateLimiterRejectsEmptyKey(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	if rl.Allow("") {
		t.Fatal("expected empty key to be rejected")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("client-a") {
		t.Fatal("expected first request to pass")
	}
	if rl.Allow("client-a") {
		t.Fatal("expected second request to be limited")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("client-a") {
		t.Fatal("expected request to pass after window reset")
	}
}
