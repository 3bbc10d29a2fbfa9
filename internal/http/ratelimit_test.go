package http

import "testing"

func TestRateLimiterAllowsWithinWindow(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Fatalf("fourth request should be limited")
	}
	// Other clients get their own window.
	if !rl.allow("5.6.7.8") {
		t.Fatalf("separate client should not be limited")
	}
}
