package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unify-api/internal/service"
)

// Metrics records latency and status per route template. Requests that match
// no route share the "unmatched" label, and scrapes of /metrics are not counted.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
