// Package monitoring provides the observability implementations: the
// zap-backed logger, Prometheus metrics, and OpenTelemetry tracing.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector the service records into. It is
// constructed once with a registerer so tests can use isolated registries.
type Metrics struct {
	LoginsTotal         *prometheus.CounterVec
	TokenFailuresTotal  *prometheus.CounterVec
	AuthzDenialsTotal   prometheus.Counter
	DeviceQueriesTotal  *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers all collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devscope_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		TokenFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devscope_token_failures_total",
			Help: "Token decode failures by reason.",
		}, []string{"reason"}),
		AuthzDenialsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "devscope_authorization_denials_total",
			Help: "Account authorization denials.",
		}),
		DeviceQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devscope_device_queries_total",
			Help: "Device queries by operation and outcome.",
		}, []string{"operation", "outcome"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devscope_http_requests_total",
			Help: "HTTP requests by method, route, and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devscope_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// RecordLogin counts a login attempt outcome.
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

// RecordTokenFailure counts a token decode failure by reason.
func (m *Metrics) RecordTokenFailure(reason string) {
	if m == nil {
		return
	}
	m.TokenFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordAuthzDenial counts an authorization denial.
func (m *Metrics) RecordAuthzDenial() {
	if m == nil {
		return
	}
	m.AuthzDenialsTotal.Inc()
}

// RecordDeviceQuery counts a device query by operation and outcome.
func (m *Metrics) RecordDeviceQuery(operation, outcome string) {
	if m == nil {
		return
	}
	m.DeviceQueriesTotal.WithLabelValues(operation, outcome).Inc()
}
