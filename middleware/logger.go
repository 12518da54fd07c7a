package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imattdu/assistdash/logx"
)

const maxLoggedBody = 4 << 10

type responseWriter struct {
	body *bytes.Buffer
	gin.ResponseWriter
}

func (w responseWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - w.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		w.body.Write(b[:room])
	}
	return w.ResponseWriter.Write(b)
}

// AccessMiddleware 访问日志；logger 为 nil 时用全局 logger
func AccessMiddleware(logger logx.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		l := logger
		if l == nil {
			l = logx.L()
		}
		req := ctx.Request
		c := req.Context()
		logMap := map[string]any{
			logx.Remote: ctx.ClientIP(),
			logx.Method: req.Method,
			logx.Path:   req.URL.Path,
			logx.Query:  req.URL.RawQuery,
		}
		reqBodyBytes, err := ctx.GetRawData()
		if err != nil {
			_ = ctx.AbortWithError(http.StatusBadRequest, err)
			logMap[logx.Err] = err.Error()
			logMap[logx.Msg] = "GetRawData failed"
			l.Warn(c, logx.TagRequestIn, logMap)
			return
		}

		// 重置请求体，供后续 handler 读取
		ctx.Request.Body = io.NopCloser(bytes.NewReader(reqBodyBytes))
		if len(reqBodyBytes) > 0 {
			var reqBody any
			if json.Unmarshal(reqBodyBytes, &reqBody) == nil {
				logMap[logx.Body] = reqBody
			}
		}
		l.Info(c, logx.TagRequestIn, logMap)

		writer := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
		ctx.Writer = writer
		start := time.Now()
		ctx.Next()

		out := map[string]any{
			logx.Method:   req.Method,
			logx.Path:     req.URL.Path,
			logx.Status:   ctx.Writer.Status(),
			logx.Response: writer.body.String(),
			logx.Cost:     time.Since(start).Milliseconds(),
		}
		if ctx.Writer.Status() >= http.StatusInternalServerError {
			l.Warn(c, logx.TagRequestOut, out)
			return
		}
		l.Info(c, logx.TagRequestOut, out)
	}
}
