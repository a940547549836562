package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "memo"

// Collector holds the Prometheus metrics of the server. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Store metrics
	StoreWrites     *prometheus.CounterVec
	PersistFailures prometheus.Counter
	Records         *prometheus.GaugeVec
}

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StoreWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_mutations_total",
				Help:      "Record store mutations by collection and operation",
			},
			[]string{"collection", "operation"},
		),
		PersistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_persist_failures_total",
				Help:      "Number of failed attempts to persist the record store",
			},
		),
		Records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_records",
				Help:      "Current number of records per collection",
			},
			[]string{"collection"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.StoreWrites,
		c.PersistFailures,
		c.Records,
		collectors.NewGoCollector(),
	)

	return c
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveRequest records one served HTTP request
func (c *Collector) ObserveRequest(method, route, status string, seconds float64) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveMutation records a store mutation and the resulting collection size
func (c *Collector) ObserveMutation(collection, operation string, size int) {
	if c == nil {
		return
	}
	c.StoreWrites.WithLabelValues(collection, operation).Inc()
	c.Records.WithLabelValues(collection).Set(float64(size))
}

// SetRecords sets the size gauge of a collection
func (c *Collector) SetRecords(collection string, size int) {
	if c == nil {
		return
	}
	c.Records.WithLabelValues(collection).Set(float64(size))
}

// ObservePersistFailure counts a failed persist
func (c *Collector) ObservePersistFailure() {
	if c == nil {
		return
	}
	c.PersistFailures.Inc()
}
