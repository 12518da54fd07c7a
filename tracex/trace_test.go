package tracex

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSpanInheritsTrace(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "overview")
	assert.Len(t, root.TraceID, 32)
	assert.Empty(t, root.Parent)

	ctx, child := StartSpan(ctx, "projects")
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.Parent)
	assert.Same(t, child, SpanFromContext(ctx))
}

func TestEndSpanHookOnce(t *testing.T) {
	calls := 0
	SetGlobalSpanHook(func(_ context.Context, _ *Span) { calls++ })
	defer SetGlobalSpanHook(nil)

	ctx, span := StartSpan(context.Background(), "sprint")
	boom := errors.New("boom")
	EndSpan(ctx, boom)
	EndSpan(ctx, nil)

	assert.Equal(t, 1, calls)
	assert.Equal(t, boom, span.Err)
	assert.GreaterOrEqual(t, span.Duration().Nanoseconds(), int64(0))
}

func TestHeaderRoundTrip(t *testing.T) {
	ctx, out := StartSpan(context.Background(), "client")
	h := http.Header{}
	InjectToHeader(ctx, h)
	assert.Equal(t, out.TraceID, h.Get(HeaderTraceID))

	_, local, remote := ExtractRemoteSpan(context.Background(), h, "server")
	require.NotNil(t, remote)
	assert.Equal(t, out.TraceID, local.TraceID)
	assert.Equal(t, out.SpanID, local.Parent)
}

func TestExtractWithoutHeaders(t *testing.T) {
	ctx, local, remote := ExtractRemoteSpan(context.Background(), nil, "server")
	assert.Nil(t, remote)
	assert.NotEmpty(t, local.TraceID)
	assert.Equal(t, local.TraceID, TraceIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
