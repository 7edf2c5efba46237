package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		if !rl.Allow("tablet-1", 3, time.Minute) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("tablet-1", 3, time.Minute) {
		t.Error("fourth request inside the window should be rejected")
	}
	if !rl.Allow("tablet-2", 3, time.Minute) {
		t.Error("a different key should have its own window")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter()

	if !rl.Allow("tablet-1", 1, 10*time.Millisecond) {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("tablet-1", 1, 10*time.Millisecond) {
		t.Fatal("second request inside the window should be rejected")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("tablet-1", 1, 10*time.Millisecond) {
		t.Error("request after the window expires should be allowed")
	}
}

func TestRealIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:4321"

	if got := RealIP(r); got != "10.0.0.1" {
		t.Errorf("RealIP = %q, want 10.0.0.1", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := RealIP(r); got != "203.0.113.9" {
		t.Errorf("RealIP = %q, want first forwarded address", got)
	}
}
