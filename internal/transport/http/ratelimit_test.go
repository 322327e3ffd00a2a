package http

import "testing"

func TestRateLimiterCapsPerWindow(t *testing.T) {
	limiter := newRateLimiter(2)
	stop := make(chan struct{})
	defer close(stop)
	limiter.startReset(stop)

	if !limiter.allow() || !limiter.allow() {
		t.Fatal("expected first two events to pass")
	}
	if limiter.allow() {
		t.Fatal("expected third event to be limited")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(0)
	for i := 0; i < 1000; i++ {
		if !limiter.allow() {
			t.Fatalf("event %d limited with rate limiting disabled", i)
		}
	}
}
