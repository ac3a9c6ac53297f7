package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus metrics
// ============================================================

var (
	// Labels: route (gin full path), method, status (HTTP code)
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alevel",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"route", "method", "status"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "alevel",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route"})

	// Labels: tool, outcome (ok, error)
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alevel",
		Subsystem: "tool",
		Name:      "calls_total",
		Help:      "Tool calls by tool and outcome",
	}, []string{"tool", "outcome"})

	// Labels: facet (roots, turning points, ...)
	facetErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alevel",
		Subsystem: "analysis",
		Name:      "facet_errors_total",
		Help:      "Analysis facets that degraded to an error",
	}, []string{"facet"})

	historyWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alevel",
		Subsystem: "history",
		Name:      "writes_total",
		Help:      "History appends by kind and outcome",
	}, []string{"kind", "outcome"})
)
