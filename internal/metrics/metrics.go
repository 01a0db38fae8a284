// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package metrics exposes Prometheus instrumentation for the discovery
// pipeline: source adapter health, pipeline stage outcomes, cache
// efficiency, and API latency. All metrics register on the default
// registry and are served from /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source adapter metrics

	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_requests_total",
			Help: "Total provider HTTP requests by outcome (success, failure, rejected)",
		},
		[]string{"source", "outcome"},
	)

	SourceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_request_duration_seconds",
			Help:    "Provider HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	SourceCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_circuit_state",
			Help: "Provider circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)

	SourceEventsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_events_fetched_total",
			Help: "Raw events fetched per source before filtering",
		},
		[]string{"source"},
	)

	// Pipeline metrics

	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_requests_total",
			Help: "Discovery pipeline runs by outcome (ok, empty, all_sources_failed)",
		},
		[]string{"outcome"},
	)

	DiscoveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_duration_seconds",
			Help:    "End-to-end discovery pipeline duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	EventsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_deduplicated_total",
			Help: "Events removed as duplicates",
		},
	)

	EventsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_rejected_total",
			Help: "Events rejected by pipeline stage (date_filter, quality)",
		},
		[]string{"stage"},
	)

	EventsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "events_returned",
			Help:    "Events returned per discovery request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// Cache metrics

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_cache_hits_total",
			Help: "Discovery result cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_cache_misses_total",
			Help: "Discovery result cache misses",
		},
	)

	CacheErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_cache_errors_total",
			Help: "Discovery result cache backend errors",
		},
	)

	// API metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Rate limit rejections by endpoint",
		},
		[]string{"endpoint"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDiscovery records one completed pipeline run.
func RecordDiscovery(outcome string, returned int, duration time.Duration) {
	DiscoveryRequests.WithLabelValues(outcome).Inc()
	DiscoveryDuration.Observe(duration.Seconds())
	EventsReturned.Observe(float64(returned))
}
