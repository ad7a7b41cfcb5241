package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	huntRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolhunter_hunt_requests_total",
		Help: "Hunt requests by outcome.",
	}, []string{"outcome"})

	huntDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "toolhunter_hunt_duration_seconds",
		Help:    "End-to-end hunt latency including search and LLM calls.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	})

	toolsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toolhunter_tools_persisted_total",
		Help: "Tool records returned by hunts (new or already stored).",
	})

	consultRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolhunter_consult_requests_total",
		Help: "Consult requests by outcome.",
	}, []string{"outcome"})

	consultDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "toolhunter_consult_duration_seconds",
		Help:    "End-to-end consult latency.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	})
)

const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)
