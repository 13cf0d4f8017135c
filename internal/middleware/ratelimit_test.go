package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func newTestLimiter(t *testing.T, capacity int, refill float64) (*RateLimiter, *fakeNow) {
	t.Helper()
	clock := &fakeNow{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(capacity, refill)
	rl.now = clock.now
	t.Cleanup(rl.Close)
	return rl, clock
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, 0.5)

	assert.True(t, rl.Allow("acme:1.2.3.4"))
	assert.True(t, rl.Allow("acme:1.2.3.4"))
	assert.False(t, rl.Allow("acme:1.2.3.4"))
	assert.True(t, rl.Allow("globex:1.2.3.4"), "buckets are per key")

	clock.t = clock.t.Add(time.Second)
	assert.False(t, rl.Allow("acme:1.2.3.4"), "half a token is not enough")

	clock.t = clock.t.Add(time.Second)
	assert.True(t, rl.Allow("acme:1.2.3.4"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, 1)
	rl.Allow("a")

	clock.t = clock.t.Add(11 * time.Minute)
	rl.cleanup()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Empty(t, rl.buckets)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 0.25)
	h := RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("/v1/acme/ai/providers").Code)
	limited := do("/v1/acme/ai/providers")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "4", limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusNoContent, do("/health").Code)
}
