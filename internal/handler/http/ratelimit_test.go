package http

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"tweet-takeaways/internal/observability/metrics"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(requests int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(requests, window)
	rl.now = clock.Now
	rl.lastClean = clock.Now()
	return rl, clock
}

func hit(rl *RateLimiter, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/summarize", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)
	before := testutil.ToFloat64(metrics.RateLimitedTotal)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(rl, "192.0.2.1:1234", nil).Code, "request %d", i)
	}
	rec := hit(rl, "192.0.2.1:1234", nil)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "20", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitedTotal))
}

func TestRateLimiter_Refills(t *testing.T) {
	rl, clock := newTestLimiter(2, time.Minute)
	hit(rl, "192.0.2.1:1", nil)
	hit(rl, "192.0.2.1:1", nil)
	assert.Equal(t, http.StatusTooManyRequests, hit(rl, "192.0.2.1:1", nil).Code)

	clock.Advance(30 * time.Second)

	assert.Equal(t, http.StatusOK, hit(rl, "192.0.2.1:1", nil).Code)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)

	assert.Equal(t, http.StatusOK, hit(rl, "192.0.2.1:1", nil).Code)
	assert.Equal(t, http.StatusOK, hit(rl, "192.0.2.2:1", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(rl, "192.0.2.1:2", nil).Code)
}

func TestRateLimiter_ForwardedHeaders(t *testing.T) {
	xff := map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}

	t.Run("untrusted", func(t *testing.T) {
		rl, _ := newTestLimiter(1, time.Minute)
		hit(rl, "10.0.0.1:1", xff)
		assert.Equal(t, http.StatusTooManyRequests,
			hit(rl, "10.0.0.1:1", map[string]string{"X-Forwarded-For": "198.51.100.7"}).Code,
			"spoofed header must not mint a new bucket")
	})

	t.Run("trusted", func(t *testing.T) {
		rl, _ := newTestLimiter(1, time.Minute)
		rl.TrustForwarded = true
		hit(rl, "10.0.0.1:1", xff)
		assert.Equal(t, http.StatusOK,
			hit(rl, "10.0.0.1:1", map[string]string{"X-Forwarded-For": "198.51.100.7"}).Code)
	})
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl, clock := newTestLimiter(5, time.Minute)
	hit(rl, "192.0.2.1:1", nil)
	hit(rl, "192.0.2.2:1", nil)
	assert.Equal(t, 2, rl.size())

	clock.Advance(cleanupInterval + time.Second)
	hit(rl, "192.0.2.3:1", nil)

	assert.Equal(t, 1, rl.size())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		trust   bool
		want    string
	}{
		{name: "remote addr", remote: "192.0.2.1:5000", want: "192.0.2.1"},
		{name: "remote without port", remote: "192.0.2.1", want: "192.0.2.1"},
		{name: "ipv6", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "xff ignored", remote: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.9"}, want: "10.0.0.1"},
		{name: "xff first entry", remote: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, trust: true, want: "203.0.113.9"},
		{name: "real ip", remote: "10.0.0.1:1", headers: map[string]string{"X-Real-IP": "203.0.113.10"}, trust: true, want: "203.0.113.10"},
		{name: "garbage xff", remote: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "not-an-ip"}, trust: true, want: "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req, tt.trust))
		})
	}
}
