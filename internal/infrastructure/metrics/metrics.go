// Package metrics exposes Prometheus metrics for the HTTP API, the image
// pipeline and the listing cache.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the collectors for one process. It uses its own
// prometheus.Registry so tests can build as many as they like.
type Registry struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	imagesStored    *prometheus.CounterVec
	imageBytes      *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// New registers the collectors under namespace, plus the Go runtime and
// process collectors.
func New(namespace string) *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	r.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	r.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	r.imagesStored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "images",
		Name:      "stored_total",
		Help:      "Image renditions written to storage.",
	}, []string{"rendition"})

	r.imageBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "images",
		Name:      "stored_bytes_total",
		Help:      "Encoded bytes written to storage by rendition.",
	}, []string{"rendition"})

	r.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "listing_cache",
		Name:      "lookups_total",
		Help:      "Listing cache lookups by result.",
	}, []string{"result"})

	r.registry.MustRegister(
		r.requestsTotal,
		r.requestDuration,
		r.inFlight,
		r.imagesStored,
		r.imageBytes,
		r.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RegisterDB exports connection pool stats for db
func (r *Registry) RegisterDB(db *sql.DB, name string) error {
	return r.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Middleware records request count, latency and in-flight requests.
// Unmatched routes are grouped under "unmatched" to bound label cardinality.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		r.inFlight.Inc()
		start := time.Now()
		c.Next()
		r.inFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.requestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		r.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// ImageStored counts one rendition of size encoded bytes
func (r *Registry) ImageStored(rendition media.Rendition, size int) {
	r.imagesStored.WithLabelValues(string(rendition)).Inc()
	r.imageBytes.WithLabelValues(string(rendition)).Add(float64(size))
}

// CacheLookup counts a listing cache hit or miss
func (r *Registry) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}
