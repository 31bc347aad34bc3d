package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medicine_searches_total",
		Help: "Total number of medicine searches",
	})

	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "medicine_search_results",
		Help:    "Number of medicines returned per search",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	})

	AdvisorRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_requests_total",
		Help: "Total number of advisor queries",
	}, []string{"matched"})

	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_created_total",
		Help: "Total number of reservations created",
	})

	ReservationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_failed_total",
		Help: "Total number of failed reservations",
	}, []string{"reason"})

	QualityReportsSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quality_reports_submitted_total",
		Help: "Total number of quality reports submitted",
	}, []string{"issue_type"})

	QualityReportsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quality_reports_rejected_total",
		Help: "Total number of quality reports rejected by validation",
	})

	NotificationsRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_requested_total",
		Help: "Total number of stock notification opt-ins",
	})

	OfflineRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offline_rejections_total",
		Help: "Total number of operations rejected while offline",
	}, []string{"operation"})

	ConnectivityOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "connectivity_online",
		Help: "1 when the network is reachable, 0 otherwise",
	})

	LedgerRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ledger_records",
		Help: "Number of records in each persisted ledger",
	}, []string{"key"})

	LedgerAppendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_append_latency_seconds",
		Help:    "Latency of ledger append operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"key"})

	LedgerEventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_events_consumed_total",
		Help: "Total number of ledger events consumed for review",
	}, []string{"type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
