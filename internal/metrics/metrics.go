// Package metrics provides Prometheus metrics for the Kit Tracker application.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kit_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kit_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Estimation Metrics
	EstimationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kit_estimations_total",
			Help: "Total number of price estimations computed",
		},
		[]string{"model_type", "source"}, // source: "preview" or "save"
	)

	EstimatedPrice = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kit_estimated_price",
			Help:    "Distribution of estimated jersey prices",
			Buckets: []float64{25, 50, 90, 140, 250, 500, 1000, 2000},
		},
	)

	// Catalog Metrics
	VersionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kit_version_cache_hits_total",
			Help: "Version lookup cache hit count",
		},
	)

	VersionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kit_version_cache_misses_total",
			Help: "Version lookup cache miss count",
		},
	)

	// Collection Metrics
	CollectionItemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kit_collection_items_total",
			Help: "Total number of jerseys across all collections",
		},
	)

	CollectionValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kit_collection_value",
			Help: "Sum of estimated prices across all collections",
		},
	)

	WishlistItemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kit_wishlist_items_total",
			Help: "Total number of wishlist entries",
		},
	)

	// Snapshot Metrics
	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kit_snapshots_total",
			Help: "Value snapshot runs by result",
		},
		[]string{"result"}, // "success" or "error"
	)

	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kit_snapshot_duration_seconds",
			Help:    "Time taken to record daily value snapshots",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// Revaluation Metrics
	ItemsRevaluedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kit_items_revalued_total",
			Help: "Collection items re-estimated by the revaluation worker",
		},
		[]string{"changed"},
	)

	RevaluationBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kit_revaluation_batch_duration_seconds",
			Help:    "Time taken to re-estimate one batch of collection items",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)
