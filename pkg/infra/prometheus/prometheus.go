package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Firewall mutations are slow remote
	// calls (the client allows up to two minutes), so the tail is long.
	latencyBuckets = []float64{
		50, 100, 250, // Fast responses
		500, 1000, 2500, // Normal responses
		5000, 10000, 30000, // Slow responses
		60000, 120000, // Near-timeout (1m-2m)
	}

	// Run duration buckets in milliseconds, up to half an hour.
	runBuckets = []float64{
		250, 1000, 5000,
		15000, 60000, 300000,
		900000, 1800000,
	}

	ReconcileRunsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoshield_reconcile_runs_total",
			Help: "Total number of reconciliation runs",
		},
		[]string{"status"}, // "succeeded", "failed" or "skipped"
	)

	ReconcileDuration = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "autoshield_reconcile_duration_ms",
			Help:    "Reconciliation run duration in milliseconds",
			Buckets: runBuckets,
		},
	)

	RangesChangedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoshield_ranges_changed_total",
			Help: "Total number of whitelist ranges committed to the store",
		},
		[]string{"action"},
	)

	DispatchesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoshield_dispatches_total",
			Help: "Total number of firewall mutation dispatches",
		},
		[]string{"service_type", "action", "status"},
	)

	DispatchLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autoshield_dispatch_latency_ms",
			Help:    "Firewall mutation call latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"service_type"},
	)

	StagedRanges = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "autoshield_staged_ranges",
			Help: "Number of ranges in the staged snapshot",
		},
	)

	AdminRequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoshield_admin_requests_total",
			Help: "Total number of admin API requests",
		},
		[]string{"method", "path", "status"},
	)
)

type MetricsConfig struct {
	EnableDispatchLatency bool // Per-service-type dispatch latency histograms
	EnableAdminRequests   bool // Admin API request counting
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableDispatchLatency: true,
		EnableAdminRequests:   true,
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
