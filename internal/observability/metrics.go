package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "agropredict"

// Metrics holds the Prometheus collectors shared by the server and the batch jobs.
type Metrics struct {
	// Location API metrics.
	LocationRequests    *prometheus.CounterVec   // labels: endpoint={states,districts}, outcome={success,unsuccessful,error}
	LocationAPIDuration *prometheus.HistogramVec // labels: endpoint
	LocationCache       *prometheus.CounterVec   // labels: endpoint, result={hit,miss}

	// Batch job metrics.
	DistrictsAdded prometheus.Counter
	CacheEntries   prometheus.Gauge
	TrainAccuracy  *prometheus.GaugeVec // labels: split={train,test}

	// Serving metrics.
	ModelLoaded      prometheus.Gauge
	Predictions      *prometheus.CounterVec // labels: crop
	OfflineLogErrors prometheus.Counter

	// Offline log sync metrics.
	SyncPublished prometheus.Counter
	SyncErrors    prometheus.Counter
	SyncRunning   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LocationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_requests_total",
			Help:      "Location API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		LocationAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "location_api_duration_seconds",
			Help:      "Location API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"endpoint"}),
		LocationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_cache_total",
			Help:      "Location cache lookups by endpoint and result.",
		}, []string{"endpoint", "result"}),
		DistrictsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "districts_added_total",
			Help:      "District baselines filled in by the augmentation job.",
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "location_cache_entries",
			Help:      "Entries in the on-disk location cache after the last write.",
		}),
		TrainAccuracy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_accuracy",
			Help:      "Accuracy of the last trained model by split.",
		}, []string{"split"}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_loaded",
			Help:      "1 when a crop model is loaded and serving, 0 otherwise.",
		}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Crop predictions served by recommended crop.",
		}, []string{"crop"}),
		OfflineLogErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offline_log_errors_total",
			Help:      "Predictions that could not be written to the offline log.",
		}),
		SyncPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_published_total",
			Help:      "Offline prediction records published upstream.",
		}),
		SyncErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_errors_total",
			Help:      "Failed offline sync batches.",
		}),
		SyncRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_running",
			Help:      "1 when the sync loop is active, 0 when shut down.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.LocationRequests,
		m.LocationAPIDuration,
		m.LocationCache,
		m.DistrictsAdded,
		m.CacheEntries,
		m.TrainAccuracy,
		m.ModelLoaded,
		m.Predictions,
		m.OfflineLogErrors,
		m.SyncPublished,
		m.SyncErrors,
		m.SyncRunning,
	}
}
