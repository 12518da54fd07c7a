package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/imattdu/assistdash/tracex"
)

// TraceMiddleware 生成/透传 trace，写入 ctx 和响应头
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span, _ := tracex.ExtractRemoteSpan(c.Request.Context(), c.Request.Header, c.FullPath())
		c.Request = c.Request.WithContext(ctx)
		c.Header(tracex.HeaderTraceID, span.TraceID)
		c.Next()

		var err error
		if len(c.Errors) > 0 {
			err = c.Errors.Last()
		}
		tracex.EndSpanExplicit(ctx, span, err)
	}
}
