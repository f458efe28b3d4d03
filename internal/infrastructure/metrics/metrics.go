package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsRecorded counts clearing submissions that reached Applied.
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_payments_recorded_total",
		Help: "Total number of payments applied through the clearing workflow",
	})

	// OverpaymentsRejected counts submissions rejected for exceeding the
	// remaining balance.
	OverpaymentsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_overpayments_rejected_total",
		Help: "Total number of clearing submissions rejected as overpayments",
	})

	// UpstreamRequests counts calls to the expense-ledger API by operation
	// and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_upstream_requests_total",
		Help: "Total number of upstream expense-ledger requests",
	}, []string{"operation", "outcome"})

	// HTTPRequests counts served requests by route pattern and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
