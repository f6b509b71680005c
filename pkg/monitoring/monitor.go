package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	PurchasesCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_completed_total",
			Help: "Number of purchases confirmed as paid",
		},
	)

	LecturesUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lectures_uploaded_total",
			Help: "Number of lecture videos uploaded",
		},
	)

	MediaCleanupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "media_cleanup_failures_total",
			Help: "Number of media cleanup tasks that exhausted their retries",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PurchasesCompleted)
	prometheus.MustRegister(LecturesUploaded)
	prometheus.MustRegister(MediaCleanupFailures)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
