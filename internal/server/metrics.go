package server

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollerstone",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rollerstone",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	quotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollerstone",
		Subsystem: "estimator",
		Name:      "quotes_total",
		Help:      "Quotes computed, by whether the minimum floor applied",
	}, []string{"minimum_applied"})

	quoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rollerstone",
		Subsystem: "estimator",
		Name:      "quote_cache_hits_total",
		Help:      "Quotes served from the memo",
	})

	inquiriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollerstone",
		Subsystem: "inquiry",
		Name:      "submissions_total",
		Help:      "Inquiry submissions by outcome",
	}, []string{"result"})
)

// metricsMiddleware records request metrics.
func metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}

// metricsHandler serves the Prometheus registry.
func metricsHandler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
