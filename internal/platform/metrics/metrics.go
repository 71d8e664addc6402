package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeApplied   = "applied"
	OutcomeRejected  = "rejected"
	OutcomeNotFound  = "not_found"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	StockAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shirt_stock_adjustments_total",
			Help: "Stock adjustments by outcome",
		},
		[]string{"outcome"},
	)
	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shirt_stock_events_dropped_total",
			Help: "Stock events dropped because the dispatch queue was full",
		},
	)
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shirt_stock_events_published_total",
			Help: "Stock events handed to the event sink",
		},
		[]string{"result"},
	)
)

// Middleware records request count and latency. Paths are labelled by route
// template so ids do not blow up label cardinality.
func Middleware(c *gin.Context) {
	if c.Request.URL.Path == "/metrics" {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()
	duration := time.Since(start).Seconds()
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	status := strconv.Itoa(c.Writer.Status())
	RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	RequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
