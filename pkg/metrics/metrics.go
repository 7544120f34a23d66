package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Dataset metrics
	DatasetGenerations prometheus.Counter
	DatasetRecords     prometheus.Gauge

	// WebSocket metrics
	WSClientsActive prometheus.Gauge
)

func init() {
	// Collectors must exist before any service touches them, tests included.
	Init(nil)
}

// Init registers all collectors. Safe to call more than once.
func Init(logger *logrus.Logger) {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canalcerto_http_requests_total",
				Help: "Total HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		)

		HTTPRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "canalcerto_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		)

		DatasetGenerations = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "canalcerto_dataset_generations_total",
				Help: "Number of synthetic dataset generations since start",
			},
		)

		DatasetRecords = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "canalcerto_dataset_records",
				Help: "Number of appointment records in the current dataset",
			},
		)

		WSClientsActive = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "canalcerto_ws_clients_active",
				Help: "Connected dashboard websocket clients",
			},
		)

		registry.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			DatasetGenerations,
			DatasetRecords,
			WSClientsActive,
		)

		if logger != nil {
			logger.Debug("Prometheus collectors registered")
		}
	})
}

// Handler returns the scrape handler for the internal registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
