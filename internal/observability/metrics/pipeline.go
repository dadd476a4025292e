package metrics

import "time"

// RecordPipelineResult records a finished pipeline run.
func RecordPipelineResult(stage, policy string, duration time.Duration, summaryRunes int) {
	PipelineResultsTotal.WithLabelValues(stage, policy).Inc()
	PipelineDuration.Observe(duration.Seconds())
	SummaryLength.Observe(float64(summaryRunes))
}

// RecordFetchSuccess records a successful page fetch with its duration and body size.
func RecordFetchSuccess(duration time.Duration, size int) {
	FetchAttemptsTotal.WithLabelValues("success").Inc()
	FetchDuration.Observe(duration.Seconds())
	FetchSize.Observe(float64(size))
}

// RecordFetchFailure records a failed page fetch.
func RecordFetchFailure(duration time.Duration) {
	FetchAttemptsTotal.WithLabelValues("failure").Inc()
	FetchDuration.Observe(duration.Seconds())
}

// RecordFallbackImage records a fallback image resolution.
func RecordFallbackImage(category string) {
	FallbackImagesTotal.WithLabelValues(category).Inc()
}

// RecordCacheLookup records a cache lookup. Result is "hit", "miss", or "error".
func RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}
