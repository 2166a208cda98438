package metrics

import "time"

// RecordFeedFetch records one feed fetch attempt and its duration.
// Status should be either "success" or "failure".
func RecordFeedFetch(source string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	FeedFetchTotal.WithLabelValues(source, status).Inc()
	FeedFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordFeedFetchError records a per-source fetch error by kind
// (timeout, connection, http_status, parse).
func RecordFeedFetchError(source, kind string) {
	FeedFetchErrors.WithLabelValues(source, kind).Inc()
}

// RecordArticlesIngested records the number of articles normalized from a source.
func RecordArticlesIngested(source string, count int) {
	ArticlesIngested.WithLabelValues(source).Add(float64(count))
}

// RecordArticlesDropped records articles removed by a curation stage
// (dedupe, recency_filter, category_cap).
func RecordArticlesDropped(stage string, count int) {
	if count <= 0 {
		return
	}
	ArticlesDropped.WithLabelValues(stage).Add(float64(count))
}

// RecordTranslation records a translation outcome.
func RecordTranslation(outcome string) {
	TranslationRequests.WithLabelValues(outcome).Inc()
}

// RecordCompletion records the duration of one LLM completion call.
func RecordCompletion(provider string, duration time.Duration) {
	CompletionDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordSummary records one category summary by synthesis path
// ("generative" or "fallback").
func RecordSummary(path string) {
	SummariesTotal.WithLabelValues(path).Inc()
}

// RecordRun records a completed run with its final status and duration.
func RecordRun(status string, duration time.Duration) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
}
