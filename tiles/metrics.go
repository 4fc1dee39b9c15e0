package tiles

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the tile server's Prometheus collectors:
//
//	http_request_duration_seconds{method,path,status}  histogram
//	http_requests_inflight                             gauge
//	http_request_errors_total{method,path,status}      counter (4xx/5xx)
//	tile_render_seconds{kind}                          histogram
//	tile_cache_lookups_total{result}                   counter (hit/miss/error)
type Metrics struct {
	reqDuration  *prometheus.HistogramVec
	reqInflight  prometheus.Gauge
	reqErrors    *prometheus.CounterVec
	renderTime   *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Requests that finished with a 4xx or 5xx status.",
		}, []string{"method", "path", "status"}),
		renderTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tile_render_seconds",
			Help:      "Time spent sampling and encoding a tile.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"kind"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_cache_lookups_total",
			Help:      "Tile cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.reqDuration, m.reqInflight, m.reqErrors, m.renderTime, m.cacheLookups)
	return m
}

// Handler records request metrics. Add it with router.Use().
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.reqInflight.Inc()
		c.Next()
		m.reqInflight.Dec()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.reqDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= 400 {
			m.reqErrors.WithLabelValues(method, path, status).Inc()
		}
	}
}

func (m *Metrics) observeRender(kind string, d time.Duration) {
	m.renderTime.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) countLookup(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}
