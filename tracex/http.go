package tracex

import (
	"context"
	"net/http"
	"time"
)

const (
	HeaderTraceID      = "X-Trace-Id"
	HeaderSpanID       = "X-Span-Id"
	HeaderParentSpanID = "X-Parent-Span-Id"
)

// InjectToHeader 把当前 span 写入出站请求头
func InjectToHeader(ctx context.Context, h http.Header) {
	if h == nil {
		return
	}
	span := SpanFromContext(ctx)
	if span == nil {
		return
	}
	if span.TraceID != "" {
		h.Set(HeaderTraceID, span.TraceID)
	}
	if span.SpanID != "" {
		h.Set(HeaderSpanID, span.SpanID)
	}
	if span.Parent != "" {
		h.Set(HeaderParentSpanID, span.Parent)
	}
}

// ExtractRemoteSpan 从入站请求头解析上游 span，并以它为 parent 创建本地 span。
// 返回 (新 ctx, 本地 span, 上游 span 或 nil)
func ExtractRemoteSpan(ctx context.Context, h http.Header, name string) (context.Context, *Span, *Span) {
	var traceID, spanID, parent string
	if h != nil {
		traceID = h.Get(HeaderTraceID)
		spanID = h.Get(HeaderSpanID)
		parent = h.Get(HeaderParentSpanID)
	}

	var remote *Span
	if traceID != "" || spanID != "" {
		remote = &Span{TraceID: traceID, SpanID: spanID, Parent: parent}
	}

	if traceID == "" {
		traceID = newID()
	}
	local := &Span{
		TraceID: traceID,
		SpanID:  newID(),
		Start:   time.Now(),
		Name:    name,
	}
	if spanID != "" {
		local.Parent = spanID
	} else if parent != "" {
		local.Parent = parent
	}

	return WithSpan(ctx, local), local, remote
}
