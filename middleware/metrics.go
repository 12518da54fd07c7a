package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/imattdu/assistdash/metricx"
)

// MetricsMiddleware 按路由模板计数，未匹配的路由记为 "unmatched"
func MetricsMiddleware(m *metricx.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Writer.Status())
	}
}
