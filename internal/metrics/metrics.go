// Package metrics exposes Prometheus collectors for probes and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "mcstatus"

// Collectors holds the application metrics registered on one registry.
type Collectors struct {
	registry *prometheus.Registry

	probesTotal   *prometheus.CounterVec
	probeLatency  *prometheus.HistogramVec
	srvOverrides  *prometheus.CounterVec
	requestsTotal *prometheus.CounterVec
	historyQueue  prometheus.Gauge
	historyDrops  prometheus.Counter
}

// New creates the collectors on a dedicated registry that also carries the Go and process collectors.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Collectors{
		registry: reg,

		probesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "probes_total",
			Help:      "Total number of status probes by edition and result",
		}, []string{"family", "result"}),

		probeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "probe_latency_milliseconds",
			Help:      "Ping round trip reported by successful probes",
			Buckets:   []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3200},
		}, []string{"family"}),

		srvOverrides: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "srv_overrides_total",
			Help:      "Probes whose endpoint was rewritten by a SRV record",
		}, []string{"family"}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code",
		}, []string{"route", "code"}),

		historyQueue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "history_queue_length",
			Help:      "Probe outcomes waiting to be written to the history database",
		}),

		historyDrops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "history_dropped_total",
			Help:      "Probe outcomes dropped because the history queue was full",
		}),
	}
}

// ObserveProbe records one probe outcome. result is "success" or an error kind.
func (c *Collectors) ObserveProbe(family, result string, latencyMs int64, srv bool) {
	if c == nil {
		return
	}

	c.probesTotal.WithLabelValues(family, result).Inc()
	if result == ResultSuccess {
		c.probeLatency.WithLabelValues(family).Observe(float64(latencyMs))
	}
	if srv {
		c.srvOverrides.WithLabelValues(family).Inc()
	}
}

// ObserveRequest counts one handled HTTP request.
func (c *Collectors) ObserveRequest(route string, code int) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// SetQueueLength updates the history queue gauge.
func (c *Collectors) SetQueueLength(n int) {
	if c == nil {
		return
	}
	c.historyQueue.Set(float64(n))
}

// HistoryDropped counts one dropped history job.
func (c *Collectors) HistoryDropped() {
	if c == nil {
		return
	}
	c.historyDrops.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and embedding.
func (c *Collectors) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Probe result labels besides the error kinds.
const (
	ResultSuccess       = "success"
	ResultProtocolError = "protocol_error"
)
