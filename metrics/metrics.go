// Package metrics defines the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Admission metrics
	AdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admissions_total",
			Help: "Total number of URL admission attempts by outcome",
		},
		[]string{"outcome"}, // "admitted" or a rejection category
	)

	ReputationCheckFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reputation_check_failures_total",
			Help: "Total number of reputation checks that failed and were admitted fail-open",
		},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reachability_probe_duration_seconds",
			Help:    "Duration of URL reachability probes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)
