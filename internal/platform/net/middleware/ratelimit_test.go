package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pnet "eventscope/internal/platform/net"
)

func TestRateLimiter_BurstThenReject(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitOptions{RPS: 1, Burst: 2})
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatalf("burst of 2 should pass")
	}
	if rl.Allow("a") {
		t.Fatalf("third call in the same instant should be limited")
	}
	if !rl.Allow("b") {
		t.Fatalf("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("a") {
		t.Fatalf("bucket should refill after a second")
	}
}

func TestRateLimiter_DisabledAndSweep(t *testing.T) {
	t.Parallel()

	off := NewRateLimiter(RateLimitOptions{})
	for i := 0; i < 100; i++ {
		if !off.Allow("x") {
			t.Fatalf("zero rps must not limit")
		}
	}

	rl := NewRateLimiter(RateLimitOptions{RPS: 5, IdleTimeout: time.Minute})
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }
	rl.Allow("old")
	now = now.Add(2 * time.Minute)
	rl.Allow("new")
	if rl.Len() != 1 {
		t.Fatalf("idle bucket should be swept, have %d", rl.Len())
	}
}

func TestRateLimit_Middleware429(t *testing.T) {
	t.Parallel()

	var limited int
	var gotStatus int
	mw := RateLimit(RateLimitOptions{RPS: 1, Burst: 1, OnLimited: func() { limited++ }},
		func(w http.ResponseWriter, status int, _ any) {
			gotStatus = status
			w.WriteHeader(status)
		})
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("first request should pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if gotStatus != http.StatusTooManyRequests || limited != 1 {
		t.Fatalf("expected 429 and one limited callback, got %d %d", gotStatus, limited)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After missing")
	}
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:1234"
	if got := clientKey(r); got != "ip:192.0.2.7" {
		t.Fatalf("clientKey = %q", got)
	}
	r = r.WithContext(pnet.WithCaller(r.Context(), pnet.Caller{UserID: "u1"}))
	if got := clientKey(r); got != "u:u1" {
		t.Fatalf("clientKey = %q", got)
	}
}
