package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	monprom "github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count, duration, and in-flight gauge per route.
// The route template (not the raw path) is used to bound label cardinality.
func Metrics(metrics *monprom.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method
		metrics.HTTPActiveRequests.WithLabelValues(method).Inc()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPActiveRequests.WithLabelValues(method).Dec()
		metrics.RecordHTTPRequest(method, path, c.Writer.Status(), time.Since(start))
	}
}
