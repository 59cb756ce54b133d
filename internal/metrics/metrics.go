// Package metrics provides Prometheus metrics for the ConstructIQ clients.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	ExportsTotal       *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "constructiq_api_requests_total",
				Help: "Total number of requests made to the ConstructIQ API",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "constructiq_api_request_duration_seconds",
				Help:    "Duration of requests to the ConstructIQ API",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),

		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "constructiq_exports_total",
				Help: "Total number of generated export documents",
			},
			[]string{"kind"},
		),

		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "constructiq_notifications_total",
				Help: "Total number of notifications shown to users",
			},
			[]string{"type"},
		),
	}
}

// ObserveRequest records one API call. It satisfies api.Observer.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	m.APIRequestsTotal.WithLabelValues(endpoint, method, StatusClass(status)).Inc()
	m.APIRequestDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// RecordExport counts a generated export document.
func (m *Metrics) RecordExport(kind string) {
	m.ExportsTotal.WithLabelValues(kind).Inc()
}

// RecordNotification counts a flash notification of the given type.
func (m *Metrics) RecordNotification(kind string) {
	m.NotificationsTotal.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StatusClass buckets an HTTP status as 2xx, 4xx and so on; 0 means the
// request never got a response.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
