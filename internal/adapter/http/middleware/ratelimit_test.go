package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_Limit(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected burst of 2 to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %d", codes[2])
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected a different client to have its own budget, got %d", rr.Code)
	}
}

func TestGetIP(t *testing.T) {
	testCases := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "first forwarded address",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.7",
		},
		{
			name:     "real ip header",
			headers:  map[string]string{"X-Real-IP": "198.51.100.2"},
			remote:   "10.0.0.1:1234",
			expected: "198.51.100.2",
		},
		{
			name:     "remote addr without port",
			remote:   "192.0.2.10:8080",
			expected: "192.0.2.10",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if got := getIP(req); got != tc.expected {
				t.Fatalf("getIP() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestRateLimiter_CleanupLimiters(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.getLimiter("stale")
	rl.limiters["stale"].lastSeen = time.Now().Add(-2 * time.Hour)
	rl.getLimiter("fresh")

	if removed := rl.CleanupLimiters(time.Hour); removed != 1 {
		t.Fatalf("expected one limiter removed, got %d", removed)
	}
	if _, ok := rl.limiters["fresh"]; !ok {
		t.Fatalf("expected fresh limiter to survive cleanup")
	}
}
