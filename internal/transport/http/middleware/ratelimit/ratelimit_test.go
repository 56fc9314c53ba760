package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAllow(t *testing.T) {
	l := New()

	// Unlimited when no rate configured.
	for i := 0; i < 100; i++ {
		if !l.Allow("client", 0) {
			t.Fatal("zero rate should never limit")
		}
	}

	// Burst up to the bucket size, then refuse.
	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow("burst", 5) {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("allowed %d requests, want 5", allowed)
	}

	// Separate clients have separate buckets.
	if !l.Allow("other", 5) {
		t.Error("fresh client should not be limited")
	}
}

func TestMiddleware(t *testing.T) {
	handler := Middleware(New(), 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webapp/credit", nil)
		req.RemoteAddr = "10.0.0.7:50000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request should be limited, got %d", codes[2])
	}

	// Other clients are unaffected.
	req := httptest.NewRequest(http.MethodPost, "/webapp/credit", nil)
	req.RemoteAddr = "10.0.0.8:50000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("unrelated client should pass, got %d", rec.Code)
	}
}
