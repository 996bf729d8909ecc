package authclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics emitted by the request pipeline.
type Metrics struct {
	Requests *prometheus.CounterVec
	Retries  prometheus.Counter
	Failures *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewMetrics creates and registers pipeline metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "authclient",
				Name:      "requests_total",
				Help:      "Outbound API requests by method and status class",
			},
			[]string{"method", "status"},
		),
		Retries: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "authclient",
				Name:      "retries_total",
				Help:      "Timeout-triggered request retries",
			},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "authclient",
				Name:      "failures_total",
				Help:      "Classified request failures by error kind",
			},
			[]string{"kind"},
		),
		Latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "authclient",
				Name:      "request_duration_seconds",
				Help:      "Outbound request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

func (m *Metrics) observeRequest(method, status string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, status).Inc()
}

func (m *Metrics) observeRetry() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}

func (m *Metrics) observeFailure(kind string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(kind).Inc()
}

func (m *Metrics) observeLatency(method string, seconds float64) {
	if m == nil {
		return
	}
	m.Latency.WithLabelValues(method).Observe(seconds)
}
