package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightflow_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "freightflow_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	QuoteRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freightflow_quote_requests_created_total",
		Help: "Quote requests accepted through the public endpoint.",
	})

	PriceCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightflow_price_calculations_total",
		Help: "Price calculations by shipment service type.",
	}, []string{"service_type"})

	QuotesExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freightflow_quotes_expired_total",
		Help: "Quoted requests flipped to expired by the batch job.",
	})
)

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
