package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesCommittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_committed_total",
		Help: "Total number of sales durably committed",
	})

	SalesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_failed_total",
		Help: "Total number of failed sale commits",
	}, []string{"reason"})

	StockDecrementsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_decrements_failed_total",
		Help: "Total number of conditional stock decrements that did not apply",
	})

	SaleCommitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sale_commit_latency_seconds",
		Help:    "Latency of the sale commit unit of work",
		Buckets: prometheus.DefBuckets,
	})

	CatalogCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Medicine lookups served from the Redis cache",
	})

	CatalogCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Medicine lookups that fell through to the database",
	})

	AuditEventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_events_processed_total",
		Help: "SaleCommitted events recorded by the audit worker",
	})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login attempts",
	}, []string{"outcome"})

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
