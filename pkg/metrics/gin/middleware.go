package gin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tokutei/learning-api/pkg/metrics"
)

// PrometheusMiddleware records request metrics for gin routes.
func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method + " " + c.FullPath()

		metrics.RecordRequest(serviceName, method, statusCode, time.Since(start))
	}
}
