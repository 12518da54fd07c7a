package logx

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/imattdu/assistdash/cctx"
	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/tracex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerWritesJSON(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{AppName: "dash", Level: slog.LevelInfo, LogDir: dir})
	require.NoError(t, err)

	ctx, span := tracex.StartSpan(context.Background(), "test")
	ctx = cctx.With(ctx, "tab", "projects")

	l.Debug(ctx, TagHttpSuccess, "hidden")
	l.Info(ctx, TagHttpSuccess, map[string]any{Endpoint: "api/projects/"}, Status, 200)
	l.Error(ctx, TagHttpFailure, errorx.New(errorx.ErrRequest, errorx.WithStatus(404, "Not Found")))
	require.NoError(t, l.(*loggerImpl).Close())

	lines := readLines(t, filepath.Join(dir, "dash.log"))
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, TagHttpSuccess, first["tag"])
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "api/projects/", first[Endpoint])
	assert.Equal(t, float64(200), first[Status])
	assert.Equal(t, span.TraceID, first["trace_id"])
	assert.Equal(t, "projects", first["tab"])
	assert.NotContains(t, first, tracex.SpanKey)
	assert.Equal(t, "logx/logger_test.go", first["file"])

	second := lines[1]
	assert.Equal(t, "server", second[Kind])
	assert.Equal(t, false, second[Retryable])
	assert.Equal(t, float64(404), second[Status])
}

func TestConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: slog.LevelDebug, ConsoleEnabled: true, Console: &buf})
	require.NoError(t, err)

	l.Warn(context.Background(), TagHttpRetry, "backing off", Attempt, 1)
	assert.Contains(t, buf.String(), TagHttpRetry)
	assert.Contains(t, buf.String(), "attempt=1")
	assert.NoError(t, l.(*loggerImpl).Close())
}

func TestDefaultLoggerIsNop(t *testing.T) {
	SetDefault(nil)
	assert.NotPanics(t, func() {
		Info(context.Background(), TagUndef, "nothing")
	})
	assert.NoError(t, Close())
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}
