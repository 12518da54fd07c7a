package tracex

import (
	"context"
	"time"
)

type SpanHook func(ctx context.Context, span *Span)

var spanHook SpanHook

// SetGlobalSpanHook 设置 span 结束时的回调，例如打日志
func SetGlobalSpanHook(h SpanHook) {
	spanHook = h
}

// StartSpan 在当前 ctx 上创建子 span；ctx 中没有 span 时生成新的 trace
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	parent := SpanFromContext(ctx)

	traceID := ""
	parentID := ""
	if parent != nil {
		traceID = parent.TraceID
		parentID = parent.SpanID
	}
	if traceID == "" {
		traceID = newID()
	}

	span := &Span{
		TraceID: traceID,
		SpanID:  newID(),
		Parent:  parentID,
		Name:    name,
		Start:   time.Now(),
	}
	return WithSpan(ctx, span), span
}

// EndSpan 结束 ctx 对应的 span 并触发 hook，重复调用无效
func EndSpan(ctx context.Context, err error) {
	EndSpanExplicit(ctx, SpanFromContext(ctx), err)
}

// EndSpanExplicit 结束指定 span
func EndSpanExplicit(ctx context.Context, span *Span, err error) {
	if span == nil || !span.End.IsZero() {
		return
	}
	span.End = time.Now()
	if err != nil {
		span.Err = err
	}
	if spanHook != nil {
		spanHook(ctx, span)
	}
}
