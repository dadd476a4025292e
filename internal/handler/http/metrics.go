package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tweet-takeaways/internal/observability/metrics"
)

// knownRoutes keeps the path label bounded.
var knownRoutes = map[string]struct{}{
	"/summarize":    {},
	"/summarize/hf": {},
	"/health":       {},
	"/live":         {},
	"/metrics":      {},
}

// routeLabel maps a request path onto a fixed label set.
func routeLabel(path string) string {
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static"
	}
	return "other"
}

// MetricsMiddleware records request count, latency, sizes, and in-flight
// requests.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		rec := newStatusRecorder(w)
		start := time.Now()
		next.ServeHTTP(rec, r)

		metrics.RecordHTTPRequest(r.Method, routeLabel(r.URL.Path), strconv.Itoa(rec.status),
			time.Since(start), int(r.ContentLength), rec.bytes)
	})
}

// MetricsHandler serves the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
