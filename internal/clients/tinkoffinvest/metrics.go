package tinkoffinvest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const subsystem = "tinkoff_invest"

type outcome string

const (
	outcomeOK        outcome = "ok"
	outcomeTransport outcome = "transport_error"
	outcomeBroker    outcome = "broker_error"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invest_client",
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "Total amount of api requests",
	}, []string{"method", "path", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "invest_client",
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Api request round trip duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invest_client",
		Subsystem: subsystem,
		Name:      "retries_total",
		Help:      "Total amount of repeated api requests",
	}, []string{"path"})

	enrichmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invest_client",
		Subsystem: subsystem,
		Name:      "enrichment_failures_total",
		Help:      "Per-instrument enrichment failures",
	}, []string{"kind"})
)
