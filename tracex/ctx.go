package tracex

import (
	"context"

	"github.com/imattdu/assistdash/cctx"
)

// SpanKey 是 span 在 cctx 中的 key，日志输出时需要隐藏
const SpanKey = "span"

// SpanFromContext 取当前 ctx 中的 span
func SpanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	span, _ := cctx.GetAs[*Span](ctx, SpanKey)
	return span
}

// TraceIDFromContext 没有则返回空串
func TraceIDFromContext(ctx context.Context) string {
	if s := SpanFromContext(ctx); s != nil {
		return s.TraceID
	}
	return ""
}

// WithSpan 把 span 写入 ctx
func WithSpan(ctx context.Context, s *Span) context.Context {
	return cctx.With(ctx, SpanKey, s)
}
