package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the compute service.
type Metrics struct {
	RequestTotal       *prometheus.CounterVec
	RequestDurationMs  *prometheus.HistogramVec
	RejectionTotal     *prometheus.CounterVec
	DelegateTotal      *prometheus.CounterVec
	DelegateDurationMs *prometheus.HistogramVec
	FilterActionTotal  *prometheus.CounterVec
	RateLimitHitTotal  *prometheus.CounterVec
	CircuitState       *prometheus.GaugeVec
}

// NewMetrics creates and registers all metrics on the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics on reg; tests pass a fresh registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bfhl_request_total",
			Help: "Total number of compute requests by operation and HTTP status.",
		}, []string{"operation", "status"}),

		RequestDurationMs: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bfhl_request_duration_ms",
			Help:    "Compute request duration in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000, 5000, 12000},
		}, []string{"operation"}),

		RejectionTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bfhl_rejection_total",
			Help: "Requests rejected before computation, by error kind.",
		}, []string{"operation", "kind"}),

		DelegateTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bfhl_delegate_total",
			Help: "AI delegate calls by backend and outcome.",
		}, []string{"backend", "outcome"}),

		DelegateDurationMs: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bfhl_delegate_duration_ms",
			Help:    "AI delegate upstream latency in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 8000, 12000},
		}, []string{"backend"}),

		FilterActionTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bfhl_filter_action_total",
			Help: "Question screening actions taken.",
		}, []string{"filter", "action"}),

		RateLimitHitTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bfhl_rate_limit_hit_total",
			Help: "Requests refused by the rate limiter.",
		}, []string{"limiter"}),
		CircuitState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bfhl_delegate_circuit_state",
			Help: "Delegate circuit breaker state: 0 closed, 1 open, 2 half open.",
		}, []string{"backend"}),
	}
}

// RecordRequest records metrics for a completed compute request.
func (m *Metrics) RecordRequest(labels RequestLabels) {
	m.RequestTotal.WithLabelValues(labels.Operation, labels.Status).Inc()
	m.RequestDurationMs.WithLabelValues(labels.Operation).Observe(labels.DurationMs)
	if labels.RejectedKind != "" {
		m.RejectionTotal.WithLabelValues(labels.Operation, labels.RejectedKind).Inc()
	}
}

// RecordDelegate records one AI delegate call. Short-circuited calls carry no latency.
func (m *Metrics) RecordDelegate(backend, outcome string, durationMs float64) {
	m.DelegateTotal.WithLabelValues(backend, outcome).Inc()
	if durationMs > 0 {
		m.DelegateDurationMs.WithLabelValues(backend).Observe(durationMs)
	}
}

// SetCircuitState exports the delegate breaker state.
func (m *Metrics) SetCircuitState(backend string, state int) {
	m.CircuitState.WithLabelValues(backend).Set(float64(state))
}

// RecordFilterAction records a filter action metric.
func (m *Metrics) RecordFilterAction(filter, action string) {
	m.FilterActionTotal.WithLabelValues(filter, action).Inc()
}

// RecordRateLimitHit records a refused request.
func (m *Metrics) RecordRateLimitHit(limiter string) {
	m.RateLimitHitTotal.WithLabelValues(limiter).Inc()
}

// RequestLabels holds the label values for recording a request.
type RequestLabels struct {
	// Operation is the resolved key, or "unknown" before resolution.
	Operation    string
	Status       string
	DurationMs   float64
	RejectedKind string
}
