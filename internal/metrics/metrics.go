// Package metrics exposes Prometheus counters for the HTTP surface and the
// swap lifecycle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what handlers and background workers depend on.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, d time.Duration)
	RecordSwapEvent(eventType string)
	RecordSwapOutcome(operation string, outcome string)
	RecordDelivery(sink string, ok bool)
	RecordDropped(eventType string)
	RecordRateLimited(scope string)
}

type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	swapEvents   *prometheus.CounterVec
	swapOutcomes *prometheus.CounterVec
	deliveries   *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	rateLimited  *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillswap_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		swapEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_swap_events_total",
			Help: "Swap lifecycle events emitted.",
		}, []string{"type"}),
		swapOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_swap_operations_total",
			Help: "Swap operations by outcome.",
		}, []string{"operation", "outcome"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_event_deliveries_total",
			Help: "Event deliveries per sink.",
		}, []string{"sink", "result"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_events_dropped_total",
			Help: "Events dropped because the dispatch queue was full.",
		}, []string{"type"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}, []string{"scope"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.swapEvents,
		c.swapOutcomes,
		c.deliveries,
		c.dropped,
		c.rateLimited,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordSwapEvent(eventType string) {
	c.swapEvents.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordSwapOutcome(operation, outcome string) {
	c.swapOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordDelivery(sink string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	c.deliveries.WithLabelValues(sink, result).Inc()
}

func (c *Collector) RecordDropped(eventType string) {
	c.dropped.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordRateLimited(scope string) {
	c.rateLimited.WithLabelValues(scope).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordSwapEvent(string) {}
func (Nop) RecordSwapOutcome(string, string) {}
func (Nop) RecordDelivery(string, bool) {}
func (Nop) RecordDropped(string) {}
func (Nop) RecordRateLimited(string) {}
