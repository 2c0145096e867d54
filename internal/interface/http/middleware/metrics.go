package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// Metrics HTTP请求指标
// path标签使用路由模板（/books/:asin），避免按asin产生无限多的时间序列
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()

	return func(c *gin.Context) {
		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		start := time.Now()

		defer func() {
			metrics.DecGauge(metrics.HTTPRequestsInProgress)

			path := c.FullPath()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request.Method

			metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
				"method": method,
				"path":   path,
				"status": strconv.Itoa(c.Writer.Status()),
			})
			metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
				"method": method,
				"path":   path,
			}, time.Since(start).Seconds())
		}()

		c.Next()
	}
}
