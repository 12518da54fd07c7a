package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/logx"
)

type errorBody struct {
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	Details   string `json:"details,omitempty"`
	Detail    string `json:"detail,omitempty"` // 后端 FastAPI 返回的 detail
	Retryable bool   `json:"retryable"`
	Display   string `json:"display"`
}

// statusFor 后端 4xx 原样透传，参数错误 400，其余 502
func statusFor(e *errorx.Error) int {
	switch {
	case e.Status >= 400 && e.Status < 500:
		return e.Status
	case errorx.IsCode(e, errorx.ErrInvalid):
		return http.StatusBadRequest
	case errorx.IsCode(e, errorx.ErrCanceled) && errors.Is(e, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) renderError(c *gin.Context, err error) {
	e := errorx.Classify(err)
	code := statusFor(e)
	s.logger.Warn(c.Request.Context(), logx.TagDashboard, "request failed",
		logx.Path, c.FullPath(), logx.Status, code, logx.Err, e)
	_ = c.Error(e)
	c.AbortWithStatusJSON(code, gin.H{"error": newErrorBody(e)})
}

// newErrorBody 后端 detail 拼进 Display，位于重试提示之前
func newErrorBody(e *errorx.Error) errorBody {
	detail, _ := e.Fields["detail"].(string)
	view := *e
	if detail != "" && detail != e.Details {
		view.Details = strings.TrimSpace(e.Details + "\n\n" + detail)
	}
	return errorBody{
		Message:   e.Message,
		Kind:      string(e.Kind),
		Details:   e.Details,
		Detail:    detail,
		Retryable: e.Retryable,
		Display:   errorx.FormatForUser(&view),
	}
}

// badRequest 本地参数错误
func (s *Server) badRequest(c *gin.Context, details string) {
	s.renderError(c, errorx.New(errorx.ErrInvalid, errorx.WithDetails(details)))
}

// conflict 状态冲突，例如已有进行中的冲刺
func (s *Server) conflict(c *gin.Context, details string) {
	s.renderError(c, errorx.New(errorx.ErrInvalid,
		errorx.WithDetails(details),
		errorx.WithStatus(http.StatusConflict, http.StatusText(http.StatusConflict))))
}
