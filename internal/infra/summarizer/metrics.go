package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded per model call.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeRejected    = "rejected"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeSkipped     = "skipped_language"
)

// MetricsRecorder abstracts model call metrics so tests can inject a fake.
type MetricsRecorder interface {
	// RecordCall records one attempt against a model.
	RecordCall(model, outcome string, duration time.Duration)

	// RecordDroppedWords records words removed by vocabulary enforcement.
	RecordDroppedWords(model string, n int)
}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	dropped  *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateCounterVec returns the already registered collector when tests
// construct the recorder more than once.
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// NewPrometheusMetrics returns the process-wide recorder.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			calls: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summarizer_model_calls_total",
				Help: "Remote model attempts by model and outcome",
			}, []string{"model", "outcome"}),
			duration: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_model_call_duration_seconds",
				Help:    "Latency of remote model calls",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 9),
			}, []string{"model"}),
			dropped: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summarizer_vocabulary_dropped_words_total",
				Help: "Generated words removed because they were absent from the prompt",
			}, []string{"model"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordCall implements MetricsRecorder.
func (p *PrometheusMetrics) RecordCall(model, outcome string, duration time.Duration) {
	p.calls.WithLabelValues(model, outcome).Inc()
	if outcome != OutcomeSkipped && outcome != OutcomeCircuitOpen {
		p.duration.WithLabelValues(model).Observe(duration.Seconds())
	}
}

// RecordDroppedWords implements MetricsRecorder.
func (p *PrometheusMetrics) RecordDroppedWords(model string, n int) {
	if n > 0 {
		p.dropped.WithLabelValues(model).Add(float64(n))
	}
}
