// Package metrics provides centralized Prometheus metrics for the curation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed ingestion metrics track per-source fetch behavior.
var (
	// FeedFetchTotal counts feed fetch attempts by source and outcome.
	FeedFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techwatch_feed_fetch_total",
			Help: "Total number of feed fetch attempts",
		},
		[]string{"source", "status"},
	)

	// FeedFetchErrors counts per-source fetch failures by error kind.
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techwatch_feed_fetch_errors_total",
			Help: "Total number of per-source fetch errors by kind",
		},
		[]string{"source", "kind"},
	)

	// FeedFetchDuration measures per-source fetch duration in seconds.
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "techwatch_feed_fetch_duration_seconds",
			Help:    "Feed fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// ArticlesIngested counts normalized articles produced per source.
	ArticlesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techwatch_articles_ingested_total",
			Help: "Total number of articles normalized from feed entries",
		},
		[]string{"source"},
	)
)

// Curation metrics track what each pipeline stage keeps and drops.
var (
	// ArticlesDropped counts articles removed by a curation stage.
	ArticlesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techwatch_articles_dropped_total",
			Help: "Total number of articles dropped by pipeline stage",
		},
		[]string{"stage"},
	)
)

// Translation metrics track backend usage and cache effectiveness.
var (
	// TranslationRequests counts translation outcomes
	// (translated, cache_hit, same_language, failed, passthrough).
	TranslationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techwatch_translation_requests_total",
			Help: "Total number of translation requests by outcome",
		},
		[]string{"outcome"},
	)

	// CompletionDuration measures LLM completion call duration in seconds.
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "techwatch_completion_duration_seconds",
			Help:    "LLM completion call duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)
)

// Digest metrics track summary synthesis.
var (
	// SummariesTotal counts category summaries by path (generative, fallback).
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techwatch_summaries_total",
			Help: "Total number of category summaries by synthesis path",
		},
		[]string{"path"},
	)
)

// Run metrics track whole pipeline executions.
var (
	// RunsTotal counts runs by final status (success, partial_success, error).
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techwatch_runs_total",
			Help: "Total number of pipeline runs by status",
		},
		[]string{"status"},
	)

	// RunDuration measures full pipeline run duration in seconds.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "techwatch_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)
