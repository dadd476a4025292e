package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModels []string

func (s stubModels) Models() []string { return s }

type stubCache struct{ backend string }

func (s stubCache) Backend() string { return s.backend }

type stubRemoteCache struct {
	stubCache
	err error
}

func (s stubRemoteCache) Ping(context.Context) error { return s.err }

type stubCircuits map[string]string

func (s stubCircuits) Circuits() map[string]string { return s }

func serveHealth(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	return rec.Code, resp
}

func TestHealthHandler_Healthy(t *testing.T) {
	code, resp := serveHealth(t, &HealthHandler{
		Version:          "v1.2.3",
		Models:           stubModels{"facebook/bart-large-cnn", "sshleifer/distilbart-cnn-12-6"},
		Cache:            stubCache{backend: "memory"},
		GovernmentPolicy: "gate",
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
	assert.Equal(t, []any{"facebook/bart-large-cnn", "sshleifer/distilbart-cnn-12-6"}, resp.Checks["models"].Details["priority"])
	assert.Equal(t, "memory", resp.Checks["cache"].Details["backend"])
	assert.Equal(t, "gate", resp.Checks["pipeline"].Details["government_policy"])
}

func TestHealthHandler_CachePingFails(t *testing.T) {
	code, resp := serveHealth(t, &HealthHandler{
		Models: stubModels{"m"},
		Cache: stubRemoteCache{
			stubCache: stubCache{backend: "redis"},
			err:       errors.New("dial tcp redis://:s3cret@cache:6379: connection refused"),
		},
	})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "unhealthy", resp.Checks["cache"].Status)
	assert.NotContains(t, resp.Checks["cache"].Message, "s3cret")
}

func TestHealthHandler_NoModels(t *testing.T) {
	code, resp := serveHealth(t, &HealthHandler{})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not configured", resp.Checks["models"].Message)
	_, hasCache := resp.Checks["cache"]
	assert.False(t, hasCache)
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LiveHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}

func TestHealthHandler_Circuits(t *testing.T) {
	tests := []struct {
		name       string
		reporters  []CircuitReporter
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "all closed",
			reporters:  []CircuitReporter{stubCircuits{"page-fetch": "closed"}, stubCircuits{"model:m": "closed"}},
			wantStatus: "healthy",
		},
		{
			name:       "model circuit open",
			reporters:  []CircuitReporter{stubCircuits{"page-fetch": "closed"}, stubCircuits{"model:b": "open", "model:a": "open"}},
			wantStatus: "degraded",
			wantMsg:    "open: model:a, model:b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serveHealth(t, &HealthHandler{Models: stubModels{"m"}, Circuits: tt.reporters})

			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "healthy", resp.Status)
			assert.Equal(t, tt.wantStatus, resp.Checks["circuits"].Status)
			assert.Equal(t, tt.wantMsg, resp.Checks["circuits"].Message)
			assert.Equal(t, "closed", resp.Checks["circuits"].Details["page-fetch"])
		})
	}
}
