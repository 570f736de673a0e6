package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	DoctorsRegistered  prometheus.Counter
	DoctorsDeleted     prometheus.Counter
	OrphanedCredential prometheus.Counter
	UpstreamRequests   *prometheus.CounterVec
	UpstreamDuration   *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DoctorsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "staff_doctors_registered_total",
			Help: "Total number of doctors registered",
		}),
		DoctorsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "staff_doctors_deleted_total",
			Help: "Total number of doctors deleted",
		}),
		OrphanedCredential: factory.NewCounter(prometheus.CounterOpts{
			Name: "staff_orphaned_credentials_total",
			Help: "Credentials provisioned in the auth service whose doctor record could not be stored",
		}),
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staff_upstream_requests_total",
			Help: "Calls made to the auth service by operation and outcome",
		}, []string{"operation", "outcome"}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staff_upstream_request_duration_seconds",
			Help:    "Latency of calls made to the auth service",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// NewNoop returns metrics registered on a throwaway registry
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) IncrementDoctorsRegistered() {
	m.DoctorsRegistered.Inc()
}

func (m *Metrics) IncrementDoctorsDeleted() {
	m.DoctorsDeleted.Inc()
}

func (m *Metrics) IncrementOrphanedCredentials() {
	m.OrphanedCredential.Inc()
}

func (m *Metrics) ObserveUpstream(operation, outcome string, seconds float64) {
	m.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(operation).Observe(seconds)
}
