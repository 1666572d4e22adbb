package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoginRateLimit_AllowsWithinBurst(t *testing.T) {
	mw := LoginRateLimit(1, 3, testLogger())
	h := mw(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:54321"
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d within burst", i)
	}
}

func TestLoginRateLimit_RejectsBeyondBurst(t *testing.T) {
	mw := LoginRateLimit(1, 2, testLogger())
	h := mw(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "10.0.0.2:54321"
		h.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), "RATE_LIMITED")
}

func TestLoginRateLimit_IsolatesClients(t *testing.T) {
	mw := LoginRateLimit(1, 1, testLogger())
	h := mw(okHandler())

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.3:1000"
	h.ServeHTTP(first, req)

	exhausted := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.3:1000"
	h.ServeHTTP(exhausted, req)

	other := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.4:1000"
	h.ServeHTTP(other, req)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, exhausted.Code)
	assert.Equal(t, http.StatusOK, other.Code, "a different client gets its own bucket")
}

func TestVisitorStore_CleanupEvictsStaleEntries(t *testing.T) {
	s := &visitorStore{
		visitors: make(map[string]*visitor),
		rps:      1,
		burst:    1,
		ttl:      time.Minute,
	}
	now := time.Now()
	s.nowFunc = func() time.Time { return now }

	s.getVisitor("10.0.0.1")
	s.getVisitor("10.0.0.2")
	assert.Equal(t, 2, s.len())

	now = now.Add(2 * time.Minute)
	s.cleanup()
	assert.Equal(t, 0, s.len())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{"remote addr with port", "192.168.1.10:443", "", "", "192.168.1.10"},
		{"x-forwarded-for single", "10.0.0.1:80", "203.0.113.9", "", "203.0.113.9"},
		{"x-forwarded-for chain takes first valid", "10.0.0.1:80", "203.0.113.9, 10.0.0.2", "", "203.0.113.9"},
		{"x-real-ip fallback", "10.0.0.1:80", "not-an-ip", "198.51.100.4", "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
