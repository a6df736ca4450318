// Package metrics provides Prometheus metrics for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Default histogram buckets for response latency.
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics holds all Prometheus metric collectors for the gateway.
// Counters and histograms accumulate atomically, so arbitrarily many
// in-flight requests may update them concurrently without loss.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal  prometheus.Counter
	ResponsesTotal prometheus.Counter
	// ResponseTime carries a single fixed name with no path label to keep
	// series cardinality bounded.
	ResponseTime     prometheus.Histogram
	RequestsInFlight prometheus.Gauge

	UpstreamResponses *prometheus.CounterVec
}

// New creates a Metrics instance with a custom registry and all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_api_requests_total",
			Help: "Total inbound HTTP requests entering the pipeline.",
		}),

		ResponsesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_api_responses_total",
			Help: "Total HTTP responses sent, regardless of outcome.",
		}),

		ResponseTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gateway_api_response_time_seconds",
			Help:    "Inbound request latency in seconds.",
			Buckets: defaultBuckets,
		}),

		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gateway_api_requests_in_flight",
			Help: "Number of HTTP requests currently being processed.",
		}),

		UpstreamResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_upstream_responses_total",
			Help: "Total upstream responses by backend service and status code.",
		}, []string{"service", "status_code"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.ResponsesTotal,
		m.ResponseTime,
		m.RequestsInFlight,
		m.UpstreamResponses,
	)

	return m
}
