// Package tracing wires OpenTelemetry spans into the HTTP server and the
// summarization pipeline.
//
// The server middleware extracts W3C trace context, opens a server span per
// request and echoes the trace id in X-Trace-Id. Outbound page fetches and
// model calls use otelhttp transports, so their client spans join the same
// trace. Setup installs the provider the binary uses; no exporter is
// configured.
package tracing
