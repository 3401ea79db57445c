package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"grocery-delivery-service/pkg/metrics"
)

// Metrics records request counts and latency by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		m.IncInFlight()
		start := time.Now()
		c.Next()
		m.DecInFlight()

		// Unmatched paths share one label to keep cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
