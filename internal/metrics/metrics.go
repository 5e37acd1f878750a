// Package metrics exposes Prometheus collectors for the HTTP surface and the
// auction workflow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "auction",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auction",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "auction",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	bidsPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auction",
			Subsystem: "bids",
			Name:      "placed_total",
			Help:      "Bid placement attempts by outcome.",
		},
		[]string{"result"},
	)

	settlements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auction",
			Subsystem: "settlements",
			Name:      "total",
			Help:      "Settlement attempts by outcome.",
		},
		[]string{"result"},
	)

	commissionCollected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "auction",
			Subsystem: "settlements",
			Name:      "commission_collected_total",
			Help:      "Sum of commission credited to the platform account.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		bidsPlaced,
		settlements,
		commissionCollected,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordBid counts a bid attempt. result is "created", "updated" or "rejected".
func RecordBid(result string) {
	bidsPlaced.WithLabelValues(result).Inc()
}

// RecordSettlement counts a settlement attempt and the commission it collected.
func RecordSettlement(success bool, commission float64) {
	if !success {
		settlements.WithLabelValues("failed").Inc()
		return
	}
	settlements.WithLabelValues("settled").Inc()
	if commission > 0 {
		commissionCollected.Add(commission)
	}
}
