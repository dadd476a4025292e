package http

import (
	"log/slog"
	"net/http"
	"time"

	"tweet-takeaways/internal/handler/http/middleware"
	"tweet-takeaways/internal/handler/http/requestid"
	"tweet-takeaways/internal/handler/http/respond"
	"tweet-takeaways/internal/handler/http/summarize"
	"tweet-takeaways/internal/observability/tracing"
)

// RouterConfig collects what NewRouter mounts.
type RouterConfig struct {
	Pipeline summarize.Pipeline
	Health   *HealthHandler
	// StaticDir is served under /static/; empty disables it.
	StaticDir string
	CORS      middleware.CORSConfig
	// RateLimiter guards every route except the operational ones; nil
	// disables limiting.
	RateLimiter *RateLimiter
	// RequestTimeout bounds the summarize endpoints; zero disables it.
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// operationalPaths bypass the rate limiter so probes and scrapes never
// see 429.
var operationalPaths = map[string]struct{}{
	"/health":  {},
	"/live":    {},
	"/metrics": {},
}

// NewRouter builds the mux and wraps it in the middleware chain, outermost
// first: CORS, request id, tracing, rate limit, recover, logging, body
// limit, metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	var budget func(http.Handler) http.Handler
	if cfg.RequestTimeout > 0 {
		budget = Timeout(cfg.RequestTimeout)
	}
	summarize.Register(mux, cfg.Pipeline, budget)

	if cfg.Health != nil {
		mux.Handle("GET /health", cfg.Health)
	}
	mux.Handle("GET /live", LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"message": "Backend is live"})
	})
	if cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimiter != nil {
		limited := cfg.RateLimiter.Limit
		limit = func(next http.Handler) http.Handler {
			guarded := limited(next)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, ok := operationalPaths[r.URL.Path]; ok {
					next.ServeHTTP(w, r)
					return
				}
				guarded.ServeHTTP(w, r)
			})
		}
	}

	return Chain(mux,
		middleware.CORS(cfg.CORS),
		requestid.Middleware,
		tracing.Middleware,
		limit,
		Recover(logger),
		Logging(logger),
		LimitRequestBody(MaxRequestBody),
		MetricsMiddleware,
	)
}
