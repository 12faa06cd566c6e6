package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// harmonization pipeline.
type Metrics struct {
	RecordsMerged  prometheus.Counter
	RowsMissing    prometheus.Counter
	RowsMalformed  prometheus.Counter
	RowsDuplicated prometheus.Counter

	ResolveOutcomes  *prometheus.CounterVec // labels: method={override,registry,fuzzy,unresolved}
	ResolverCache    *prometheus.CounterVec // labels: result={hit,miss}
	ForecastRequests *prometheus.CounterVec // labels: outcome={ok,insufficient_data,empty_selection}

	RefreshDuration prometheus.Histogram
	SnapshotReady   prometheus.Gauge
	LastRefresh     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fli_tracker",
			Name:      "records_merged_total",
			Help:      "Harmonized records produced by the series merge.",
		}),
		RowsMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fli_tracker",
			Name:      "rows_missing_total",
			Help:      "Input rows dropped for missing values before the join.",
		}),
		RowsMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fli_tracker",
			Name:      "rows_malformed_total",
			Help:      "Input rows dropped for uncoercible period values.",
		}),
		RowsDuplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fli_tracker",
			Name:      "rows_duplicated_total",
			Help:      "Input rows dropped as repeated (area, period) keys.",
		}),
		ResolveOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fli_tracker",
			Name:      "resolve_outcomes_total",
			Help:      "Area resolutions by winning strategy.",
		}, []string{"method"}),
		ResolverCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fli_tracker",
			Name:      "resolver_cache_total",
			Help:      "Resolver cache lookups by result.",
		}, []string{"result"}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fli_tracker",
			Name:      "forecast_requests_total",
			Help:      "Forecast computations by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fli_tracker",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete load-merge-resolve-aggregate pass.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fli_tracker",
			Name:      "snapshot_ready",
			Help:      "1 when a materialized snapshot is available, 0 otherwise.",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fli_tracker",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful snapshot refresh.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsMerged,
		m.RowsMissing,
		m.RowsMalformed,
		m.RowsDuplicated,
		m.ResolveOutcomes,
		m.ResolverCache,
		m.ForecastRequests,
		m.RefreshDuration,
		m.SnapshotReady,
		m.LastRefresh,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsMerged:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fli_tracker", Name: "records_merged_total"}),
		RowsMissing:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fli_tracker", Name: "rows_missing_total"}),
		RowsMalformed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fli_tracker", Name: "rows_malformed_total"}),
		RowsDuplicated:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fli_tracker", Name: "rows_duplicated_total"}),
		ResolveOutcomes:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fli_tracker", Name: "resolve_outcomes_total"}, []string{"method"}),
		ResolverCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fli_tracker", Name: "resolver_cache_total"}, []string{"result"}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fli_tracker", Name: "forecast_requests_total"}, []string{"outcome"}),
		RefreshDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fli_tracker", Name: "refresh_duration_seconds"}),
		SnapshotReady:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fli_tracker", Name: "snapshot_ready"}),
		LastRefresh:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fli_tracker", Name: "last_refresh_timestamp_seconds"}),
	}
}
