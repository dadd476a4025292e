// Package observability groups the logging, metrics and tracing helpers.
//
// Subpackages:
//   - logging: slog JSON logger with an optional rotating file
//   - metrics: Prometheus collectors for HTTP and pipeline outcomes
//   - tracing: OpenTelemetry tracer and server middleware
package observability
