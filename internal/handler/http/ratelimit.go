package http

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"tweet-takeaways/internal/handler/http/respond"
	"tweet-takeaways/internal/observability/metrics"
)

// cleanupInterval is how often idle client entries are swept.
const cleanupInterval = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// RateLimiter is a per-client-IP token bucket: requests per window with a
// burst of the full allowance.
type RateLimiter struct {
	clients sync.Map // map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	window  time.Duration

	// TrustForwarded makes X-Forwarded-For and X-Real-IP authoritative.
	// Enable it only behind a proxy that overwrites those headers.
	TrustForwarded bool

	cleanMu   sync.Mutex
	lastClean time.Time
	now       func() time.Time
}

// NewRateLimiter allows requests per window for each client IP.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	return &RateLimiter{
		limit:     rate.Every(window / time.Duration(requests)),
		burst:     requests,
		window:    window,
		lastClean: time.Now(),
		now:       time.Now,
	}
}

// Limit answers 429 with Retry-After once a client exhausts its allowance.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl.periodicCleanup()

		ip := clientIP(r, rl.TrustForwarded)
		if wait, ok := rl.reserve(ip); !ok {
			metrics.RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			respond.SafeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// reserve takes a token for ip. When none is available it reports how long
// until one is.
func (rl *RateLimiter) reserve(ip string) (time.Duration, bool) {
	now := rl.now()
	val, _ := rl.clients.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)})
	cl := val.(*clientLimiter)

	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.lastSeen = now

	res := cl.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return delay, false
	}
	return 0, true
}

func (rl *RateLimiter) periodicCleanup() {
	rl.cleanMu.Lock()
	defer rl.cleanMu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastClean) < cleanupInterval {
		return
	}
	rl.lastClean = now
	cutoff := now.Add(-2 * rl.window)

	rl.clients.Range(func(key, value any) bool {
		cl := value.(*clientLimiter)
		cl.mu.Lock()
		idle := cl.lastSeen.Before(cutoff)
		cl.mu.Unlock()
		if idle {
			rl.clients.Delete(key)
		}
		return true
	})
}

// size reports how many IPs are tracked.
func (rl *RateLimiter) size() int {
	n := 0
	rl.clients.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// clientIP returns the caller's address. Forwarding headers are consulted
// only when trusted; the first X-Forwarded-For entry wins.
func clientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
