// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector implements Recorder backed by Prometheus.
// Collectors are created and registered on first use.
type PrometheusCollector struct {
	reg       *prometheus.Registry
	namespace string
	once      sync.Once

	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	responses     *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	gridCacheHits *prometheus.CounterVec
}

var _ Recorder = (*PrometheusCollector)(nil)

// NewPrometheus creates a collector on reg (a fresh registry if nil).
// namespace defaults to "quickly_meet".
func NewPrometheus(reg *prometheus.Registry, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "quickly_meet"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"})

		p.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds by route.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		}, []string{"route"})

		p.responses = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "poll",
			Name:      "responses_total",
			Help:      "Availability responses by kind (created, updated).",
		}, []string{"kind"})

		p.transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "poll",
			Name:      "status_transitions_total",
			Help:      "Applied poll status transitions.",
		}, []string{"from", "to"})

		p.gridCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "grid",
			Name:      "cache_lookups_total",
			Help:      "Slot grid cache lookups by result (hit, miss).",
		}, []string{"result"})

		p.reg.MustRegister(p.requests)
		p.reg.MustRegister(p.latency)
		p.reg.MustRegister(p.responses)
		p.reg.MustRegister(p.transitions)
		p.reg.MustRegister(p.gridCacheHits)
	})
}

// ObserveRequest counts the request and observes its latency.
func (p *PrometheusCollector) ObserveRequest(route, method string, status int, seconds float64) {
	p.ensureRegistered()
	p.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.latency.WithLabelValues(route).Observe(seconds)
}

// RecordResponse increments the response counter for kind.
func (p *PrometheusCollector) RecordResponse(kind string) {
	p.ensureRegistered()
	p.responses.WithLabelValues(kind).Inc()
}

// RecordTransition increments the from/to transition counter.
func (p *PrometheusCollector) RecordTransition(from, to string) {
	p.ensureRegistered()
	p.transitions.WithLabelValues(from, to).Inc()
}

// ObserveGridCache increments the hit or miss counter.
func (p *PrometheusCollector) ObserveGridCache(hit bool) {
	p.ensureRegistered()
	result := "miss"
	if hit {
		result = "hit"
	}
	p.gridCacheHits.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusCollector) Handler() http.Handler {
	p.ensureRegistered()
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}
