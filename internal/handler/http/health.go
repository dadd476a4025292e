// Package http serves the summarization API and its operational endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"tweet-takeaways/internal/handler/http/respond"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus is the outcome of one check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ModelLister reports the model priority list.
type ModelLister interface {
	Models() []string
}

// CacheBackend names the summary cache implementation.
type CacheBackend interface {
	Backend() string
}

// Pinger is implemented by caches that live in another process.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CircuitReporter reports circuit breaker states keyed by breaker name.
type CircuitReporter interface {
	Circuits() map[string]string
}

// HealthHandler reports the configured models, the cache and the circuit
// breakers. A cache that fails its ping makes the service unhealthy; an
// open circuit only marks its check degraded.
type HealthHandler struct {
	Version          string
	Models           ModelLister
	Cache            CacheBackend
	Circuits         []CircuitReporter
	GovernmentPolicy string
	OCREnabled       bool
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"pipeline": {
			Status: "healthy",
			Details: map[string]any{
				"government_policy": h.GovernmentPolicy,
				"ocr_enabled":       h.OCREnabled,
			},
		},
	}
	healthy := true

	if h.Models != nil {
		checks["models"] = CheckStatus{Status: "healthy", Details: map[string]any{"priority": h.Models.Models()}}
	} else {
		checks["models"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		healthy = false
	}

	if h.Cache != nil {
		check := CheckStatus{Status: "healthy", Details: map[string]any{"backend": h.Cache.Backend()}}
		if p, ok := h.Cache.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				check.Status = "unhealthy"
				check.Message = respond.SanitizeError(err)
				healthy = false
			}
		}
		checks["cache"] = check
	}

	if len(h.Circuits) > 0 {
		checks["circuits"] = circuitCheck(h.Circuits)
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.Version,
		Checks:    checks,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
		slog.Default().Warn("health check failed", slog.Any("checks", checks))
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, resp)
}

func circuitCheck(reporters []CircuitReporter) CheckStatus {
	states := map[string]any{}
	var open []string
	for _, r := range reporters {
		for name, state := range r.Circuits() {
			states[name] = state
			if state == gobreaker.StateOpen.String() {
				open = append(open, name)
			}
		}
	}
	check := CheckStatus{Status: "healthy", Details: states}
	if len(open) > 0 {
		sort.Strings(open)
		check.Status = "degraded"
		check.Message = "open: " + strings.Join(open, ", ")
	}
	return check
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
