// Package metrics exposes Prometheus collectors for the ledger, the document
// processors and the HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"millstock/internal/domain/documents"
	"millstock/internal/domain/registers/stock"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	adjustments     *prometheus.CounterVec
	documents       *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	_ stock.Recorder     = (*Metrics)(nil)
	_ documents.Recorder = (*Metrics)(nil)
)

// New initializes the registry and every collector.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "millstock_stock_adjustments_total",
		Help: "Ledger adjustments applied, by pool and direction.",
	}, []string{"pool", "direction"})
	docs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "millstock_documents_total",
		Help: "Document operations by type, operation and outcome.",
	}, []string{"type", "operation", "outcome"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "millstock_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "millstock_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		adjustments, docs, requests, duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		adjustments:     adjustments,
		documents:       docs,
		requestsTotal:   requests,
		requestDuration: duration,
	}
}

// ObserveAdjustment implements stock.Recorder.
func (m *Metrics) ObserveAdjustment(pool stock.Pool, inward bool) {
	if m == nil {
		return
	}
	direction := "outward"
	if inward {
		direction = "inward"
	}
	m.adjustments.WithLabelValues(pool.String(), direction).Inc()
}

// ObserveDocument implements documents.Recorder.
func (m *Metrics) ObserveDocument(docType, operation, outcome string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(docType, operation, outcome).Inc()
}

// Handler returns the /metrics handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Registerer exposes the registry for extra collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}
