package logx

import (
	"context"
	"log/slog"

	"github.com/imattdu/assistdash/cctx"
	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/tracex"
)

// encodeLog 把 ctx / msg / kv 整合成一组 slog.Attr
func encodeLog(ctx context.Context, c caller, msg any, kv ...any) []slog.Attr {
	attrs := make([]slog.Attr, 0, 16)

	attrs = append(attrs,
		slog.String("file", c.file),
		slog.Int("line", c.line),
		slog.String("func", c.funcName),
	)

	if span := tracex.SpanFromContext(ctx); span != nil {
		attrs = append(attrs,
			slog.String("trace_id", span.TraceID),
			slog.String("span_id", span.SpanID),
		)
	}

	switch v := msg.(type) {
	case nil:
	case *errorx.Error:
		attrs = append(attrs,
			slog.String(Kind, string(v.Kind)),
			slog.String(Msg, v.Message),
			slog.Bool(Retryable, v.Retryable),
		)
		if v.Status != 0 {
			attrs = append(attrs, slog.Int(Status, v.Status))
		}
		if v.Details != "" {
			attrs = append(attrs, slog.String("details", v.Details))
		}
		if v.Cause != nil {
			attrs = append(attrs, slog.String(Err, v.Cause.Error()))
		}
		for k, vv := range v.Fields {
			attrs = append(attrs, slog.Any(k, vv))
		}
	case error:
		attrs = append(attrs, slog.String(Err, v.Error()))
	case map[string]any:
		for k, vv := range v {
			attrs = append(attrs, slog.Any(k, vv))
		}
	default:
		attrs = append(attrs, slog.Any(Msg, v))
	}

	for k, v := range cctx.All(ctx, tracex.SpanKey) {
		attrs = append(attrs, slog.Any(k, v))
	}

	// 额外 kv，必须成对
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(k, kv[i+1]))
	}

	return attrs
}
