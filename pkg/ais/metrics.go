package ais

import (
	"github.com/LeeDigitalWorks/zapstore/pkg/debug"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestsTotal tracks request attempts by operation and status code
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zapstore",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of HTTP request attempts",
	}, []string{"op", "code"})

	// RequestDuration tracks attempt latency by operation
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "zapstore",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Time spent on HTTP request attempts",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"op"})

	// RequestRetries tracks retried attempts by operation
	RequestRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zapstore",
		Subsystem: "client",
		Name:      "request_retries_total",
		Help:      "Total number of request retries",
	}, []string{"op"})

	// RequestRedirects tracks followed redirects by operation
	RequestRedirects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zapstore",
		Subsystem: "client",
		Name:      "request_redirects_total",
		Help:      "Total number of redirects followed",
	}, []string{"op"})
)

func init() {
	debug.Registry().MustRegister(
		RequestsTotal,
		RequestDuration,
		RequestRetries,
		RequestRedirects,
	)
}
