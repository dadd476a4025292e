package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"tweet-takeaways/internal/observability/metrics"
)

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/summarize":                        "/summarize",
		"/summarize/hf":                     "/summarize/hf",
		"/health":                           "/health",
		"/static/images/og-fallbacks/x.jpg": "/static",
		"/wp-admin/setup.php":               "other",
		"/summarize/../../etc/passwd":       "other",
	}
	for path, want := range tests {
		assert.Equal(t, want, routeLabel(path), path)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsInFlight))
		w.WriteHeader(http.StatusTeapot)
	}))
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/summarize/hf", "418")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/summarize/hf", strings.NewReader(`{"url":"x"}`)))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.HTTPRequestsInFlight))
}

func TestMetricsHandler(t *testing.T) {
	metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/live", "200").Inc()
	rec := httptest.NewRecorder()

	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
