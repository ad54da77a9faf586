// Package metrics holds the Prometheus collectors of the parish backend.
// All methods are safe on a nil *Metrics so optional wiring stays simple.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "parish"

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RequestsSubmitted  *prometheus.CounterVec
	StatusTransitions  *prometheus.CounterVec
	CertificatesIssued prometheus.Counter
	GenerationDuration *prometheus.HistogramVec
	GenerationFailures *prometheus.CounterVec
	RegistryCache      *prometheus.CounterVec
	ArchiveUploads     *prometheus.CounterVec
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_submitted_total",
			Help:      "Service requests accepted from the public form by category and outcome.",
		}, []string{"category", "outcome"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_status_transitions_total",
			Help:      "Admin status changes by target status.",
		}, []string{"status"}),
		CertificatesIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_issued_total",
			Help:      "Certificates issued.",
		}),
		GenerationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "certificate_generation_seconds",
			Help:      "Time spent rendering certificate PDFs by sacrament type.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"type"}),
		GenerationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificate_generation_failures_total",
			Help:      "Failed certificate generations by reason.",
		}, []string{"reason"}),
		RegistryCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_cache_lookups_total",
			Help:      "Certificate registry cache lookups by result.",
		}, []string{"result"}),
		ArchiveUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificate_archive_uploads_total",
			Help:      "Certificate copies sent to object storage by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) Submitted(category, outcome string) {
	if m == nil {
		return
	}
	m.RequestsSubmitted.WithLabelValues(category, outcome).Inc()
}

func (m *Metrics) Transitioned(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) Issued() {
	if m == nil {
		return
	}
	m.CertificatesIssued.Inc()
}

func (m *Metrics) Generated(sacramentType string, d time.Duration) {
	if m == nil {
		return
	}
	m.GenerationDuration.WithLabelValues(sacramentType).Observe(d.Seconds())
}

func (m *Metrics) GenerationFailed(reason string) {
	if m == nil {
		return
	}
	m.GenerationFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) RegistryLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.RegistryCache.WithLabelValues(result).Inc()
}

func (m *Metrics) Archived(ok bool) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	m.ArchiveUploads.WithLabelValues(result).Inc()
}
