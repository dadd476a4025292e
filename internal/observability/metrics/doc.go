// Package metrics holds the Prometheus collectors shared across the service.
//
// Collectors register with the default registry through promauto and are
// exposed on /metrics:
//   - HTTP request count, duration and sizes
//   - pipeline outcomes by terminal stage, summary length, fetch results
//   - fallback image resolutions and cache lookups
//
// Remote model call metrics live with the summarizer.
package metrics
