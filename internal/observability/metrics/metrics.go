package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RelayMetrics exposes counters/histograms for forwarded requests.
type RelayMetrics struct {
	forwardTotal   *prometheus.CounterVec
	forwardLatency *prometheus.HistogramVec
	rejectedTotal  *prometheus.CounterVec
}

// NewRelayMetrics registers the relay collectors on reg, falling back to the
// default registerer when reg is nil.
func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		forwardTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inis",
			Subsystem: "relay",
			Name:      "forward_total",
			Help:      "Total outbound forwards by target and outcome",
		}, []string{"target", "outcome"}),
		forwardLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inis",
			Subsystem: "relay",
			Name:      "forward_latency_seconds",
			Help:      "Latency of outbound forwards",
			Buckets:   prometheus.DefBuckets,
		}, []string{"target"}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inis",
			Subsystem: "relay",
			Name:      "rejected_total",
			Help:      "Requests rejected before forwarding",
		}, []string{"target", "kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.forwardTotal, m.forwardLatency, m.rejectedTotal)
	return m
}

// ObserveForward records one outbound attempt. outcome is "ok", "upstream_error"
// or "transport_error".
func (m *RelayMetrics) ObserveForward(target, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.forwardTotal.WithLabelValues(target, outcome).Inc()
	m.forwardLatency.WithLabelValues(target).Observe(seconds)
}

// ObserveRejected records a request answered without forwarding.
func (m *RelayMetrics) ObserveRejected(target, kind string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(target, kind).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
