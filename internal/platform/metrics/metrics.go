package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	SubjectsRegistered    prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
	VerificationAttempts  *prometheus.CounterVec
	AlertsEmitted         *prometheus.CounterVec
	AlertsDropped         prometheus.Counter
	SnapshotPersist       prometheus.Histogram
	StoreErrors           *prometheus.CounterVec
	EndpointLatency       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SubjectsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "enrolld_subjects_registered_total",
			Help: "Total number of subjects enrolled in the registry",
		}),
		RegistrationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrolld_registrations_rejected_total",
			Help: "Total number of rejected registrations, labeled by reason",
		}, []string{"reason"}),
		VerificationAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrolld_verification_attempts_total",
			Help: "Total number of verification attempts, labeled by outcome",
		}, []string{"outcome"}),
		AlertsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrolld_alerts_emitted_total",
			Help: "Total number of operator alerts emitted, labeled by kind",
		}, []string{"kind"}),
		AlertsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "enrolld_alerts_dropped_total",
			Help: "Total number of operator alerts dropped due to a full buffer",
		}),
		SnapshotPersist: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "enrolld_snapshot_persist_seconds",
			Help:    "Duration of registry snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrolld_store_errors_total",
			Help: "Total number of registry store failures, labeled by operation",
		}, []string{"operation"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "enrolld_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncVerification records a verification attempt outcome.
func (m *Metrics) IncVerification(outcome string) {
	if m == nil {
		return
	}
	m.VerificationAttempts.WithLabelValues(outcome).Inc()
}

// IncAlert records an emitted alert by kind.
func (m *Metrics) IncAlert(kind string) {
	if m == nil {
		return
	}
	m.AlertsEmitted.WithLabelValues(kind).Inc()
}
