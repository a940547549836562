package middleware

import (
	"strconv"
	"time"

	"memo-notes/src/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counts and latencies per route template
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.ObserveRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
