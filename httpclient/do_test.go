package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imattdu/assistdash/errorx"
)

type echoPayload struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Body   string `json:"body"`
}

func echoServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/broken":
			_, _ = io.WriteString(w, `{"method":`)
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = io.WriteString(w, `{"method":"`+r.Method+`","path":"`+r.URL.Path+`","body":`+quote(string(b))+`}`)
		}
	}))
}

func quote(s string) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteRune(r)
	}
	buf.WriteByte('"')
	return buf.String()
}

func TestDoDecodesJSON(t *testing.T) {
	srv := echoServer()
	defer srv.Close()
	c, _ := newTestClient(t, srv.URL)

	var out echoPayload
	_, err := c.PostJSON(context.Background(), "/api/assistant/mcp/tool",
		map[string]any{"tool_name": "send_email"}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, out.Method)
	assert.Equal(t, "/api/assistant/mcp/tool", out.Path)
	assert.JSONEq(t, `{"tool_name":"send_email"}`, out.Body)

	_, err = c.PutJSON(context.Background(), "api/projects/3", map[string]string{"status": "completed"}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, out.Method)

	_, err = c.DeleteJSON(context.Background(), "api/projects/3", &out)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, out.Method)
}

func TestDoRawAndWriter(t *testing.T) {
	srv := echoServer()
	defer srv.Close()
	c, _ := newTestClient(t, srv.URL)

	var raw []byte
	_, err := c.GetJSON(context.Background(), "/raw", &raw)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"path":"/raw"`)

	var buf bytes.Buffer
	_, err = c.GetJSON(context.Background(), "/writer", &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"path":"/writer"`)
}

func TestDoEmptyBody(t *testing.T) {
	srv := echoServer()
	defer srv.Close()
	c, _ := newTestClient(t, srv.URL)

	var out echoPayload
	resp, err := c.GetJSON(context.Background(), "/empty", &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, out.Method)
}

func TestDoDecodeError(t *testing.T) {
	srv := echoServer()
	defer srv.Close()
	c, _ := newTestClient(t, srv.URL)

	var out echoPayload
	_, err := c.GetJSON(context.Background(), "/broken", &out)
	require.Error(t, err)
	ce, ok := errorx.From(err)
	require.True(t, ok)
	assert.Equal(t, errorx.ErrDecode.Message, ce.Message)
	assert.False(t, ce.Retryable)
}

func TestEncodeBody(t *testing.T) {
	b, err := encodeBody(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = encodeBody("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = encodeBody(bytes.NewBufferString("reader"))
	require.NoError(t, err)
	assert.Equal(t, "reader", string(b))

	b, err = encodeBody(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(b))

	_, err = encodeBody(make(chan int))
	assert.Error(t, err)
}
