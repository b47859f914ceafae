// Package metrics provides prometheus collectors for the profile server.
package metrics

import (
	"strings"
	"time"

	"profile_server/pkg/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "profile"

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Outcome label values.
const (
	OutcomeOK = "ok"
)

// UserMetrics tracks profile service operations.
type UserMetrics struct {
	Operations   *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	UsersCreated prometheus.Counter
	UsersDeleted prometheus.Counter
}

// NewUserMetrics registers the service collectors on reg.
func NewUserMetrics(reg prometheus.Registerer) *UserMetrics {
	f := promauto.With(reg)
	return &UserMetrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_operations_total",
			Help:      "Profile service operations by outcome",
		}, []string{"operation", "outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "user_operation_duration_seconds",
			Help:      "Duration of profile service operations",
			Buckets:   latencyBuckets,
		}, []string{"operation"}),
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Total number of users registered",
		}),
		UsersDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_deleted_total",
			Help:      "Total number of delete requests served",
		}),
	}
}

// ObserveOperation records the duration and outcome of a service call.
// Call with time.Now() at the start of the operation.
func (m *UserMetrics) ObserveOperation(operation string, start time.Time, err error) {
	m.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	m.Operations.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if !apperr.IsAppError(err) {
		return strings.ToLower(apperr.CodeInternalError)
	}
	return strings.ToLower(apperr.AsAppError(err).Code)
}

// HTTPMetrics tracks requests served by the fiber app.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP collectors on reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	f := promauto.With(reg)
	return &HTTPMetrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   latencyBuckets,
		}, []string{"method", "route"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		}),
	}
}
