package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	registry = prometheus.NewRegistry()
	logger   *zap.Logger
)

type MetricsConfig struct {
	ReportInterval time.Duration
	LogMetrics     bool
}

func Initialize(cfg *MetricsConfig, log *zap.Logger) {
	logger = log
	prometheus.DefaultRegisterer = registry
}

// SandwichMetrics tracks sizing searches and sandwich evaluations.
type SandwichMetrics struct {
	PlansComputed   prometheus.Counter
	OutcomesValid   prometheus.Counter
	OutcomesInvalid prometheus.Counter
	LastRevenueWei  prometheus.Gauge
	SearchDuration  prometheus.Histogram
}

func NewSandwichMetrics(namespace string) *SandwichMetrics {
	return &SandwichMetrics{
		PlansComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_computed_total",
			Help:      "Total number of frontrun sizing searches run",
		}),
		OutcomesValid: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_valid_total",
			Help:      "Total number of evaluations where the victim trade survived",
		}),
		OutcomesInvalid: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_invalid_total",
			Help:      "Total number of evaluations where the victim trade would revert",
		}),
		LastRevenueWei: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_revenue_wei",
			Help:      "Revenue of the most recently evaluated valid sandwich, in wei",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of one frontrun sizing search",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
		}),
	}
}

// SourceMetrics tracks reserve reads against the chain.
type SourceMetrics struct {
	Requests       prometheus.Counter
	Errors         prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	RateLimited    prometheus.Counter
	RequestLatency prometheus.Histogram
}

func NewSourceMetrics(namespace string) *SourceMetrics {
	return &SourceMetrics{
		Requests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of reserve read requests",
		}),
		Errors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of failed reserve reads",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of pair address cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of pair address cache misses",
		}),
		RateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests delayed by the rate limiter",
		}),
		RequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_latency_seconds",
			Help:      "Reserve read latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 10),
		}),
	}
}

// GasMetrics tracks base fee predictions.
type GasMetrics struct {
	Predictions      prometheus.Counter
	PredictedBaseFee prometheus.Histogram
}

func NewGasMetrics(namespace string) *GasMetrics {
	return &GasMetrics{
		Predictions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of base fee predictions",
		}),
		PredictedBaseFee: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predicted_base_fee_wei",
			Help:      "Predicted next-block base fee distribution",
			Buckets:   prometheus.ExponentialBuckets(1e9, 2, 15), // Start at 1 gwei
		}),
	}
}
