package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Request 表示一次调用的配置，每次调用新建
type Request struct {
	Method  string
	Path    string      // 相对 BaseURL 的 endpoint，或完整 URL
	Route   string      // 路由模板，如 /api/projects/:id，用作指标标签；为空时取 Path
	Query   url.Values  // 额外 query
	Headers http.Header // 覆盖默认 header
	Body    any         // nil / []byte / string / io.Reader / 其他按 JSON 编码

	Timeout    time.Duration // 单次尝试超时，优先于 Config.DefaultTimeout
	MaxRetries *int          // 优先于 Config.MaxRetries
}

type RequestOption func(*Request)

func WithMethod(m string) RequestOption {
	return func(r *Request) { r.Method = m }
}

func WithQuery(q url.Values) RequestOption {
	return func(r *Request) { r.Query = q }
}

func WithQueryParam(k, v string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(url.Values)
		}
		r.Query.Set(k, v)
	}
}

// WithHeader 同名 header 覆盖默认值
func WithHeader(k, v string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(http.Header)
		}
		r.Headers.Set(k, v)
	}
}

func WithBody(body any) RequestOption {
	return func(r *Request) { r.Body = body }
}

func WithTimeout(t time.Duration) RequestOption {
	return func(r *Request) { r.Timeout = t }
}

func WithRetries(n int) RequestOption {
	return func(r *Request) { r.MaxRetries = &n }
}

// WithRoute 设置路由模板，带 id 的 endpoint 应当设置
func WithRoute(route string) RequestOption {
	return func(r *Request) { r.Route = route }
}

func WithPathTemplate(format string, args ...any) RequestOption {
	return func(r *Request) { r.Path = fmt.Sprintf(format, args...) }
}

var errNoBaseURL = errors.New("relative endpoint without base url")

// APIURL 去掉 endpoint 的一个前导 "/"，拼成 BaseURL + "/" + endpoint
func (c *Client) APIURL(endpoint string) string {
	if isAbsoluteURL(endpoint) {
		return endpoint
	}
	return c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
}

// buildURL APIURL + 合并 query
func (c *Client) buildURL(endpoint string, q url.Values) (string, error) {
	if c.baseURL == "" && !isAbsoluteURL(endpoint) {
		return "", errNoBaseURL
	}
	raw := c.APIURL(endpoint)
	if len(q) == 0 {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	qs := u.Query()
	for k, vs := range q {
		for _, v := range vs {
			qs.Add(k, v)
		}
	}
	u.RawQuery = qs.Encode()
	return u.String(), nil
}

func isAbsoluteURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

// mergeHeaders 默认 JSON Content-Type < Config.DefaultHeaders < 调用方
func (c *Client) mergeHeaders(caller http.Header) http.Header {
	h := make(http.Header, len(c.defaultHeaders)+len(caller)+1)
	h.Set("Content-Type", "application/json")
	for k, vs := range c.defaultHeaders {
		h[k] = append([]string(nil), vs...)
	}
	for k, vs := range caller {
		h[textproto.CanonicalMIMEHeaderKey(k)] = append([]string(nil), vs...)
	}
	return h
}

// encodeBody 把 body 预先读成字节，重试时每次重建 reader
func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return cloneBytes(v), nil
	case json.RawMessage:
		return cloneBytes(v), nil
	case string:
		return []byte(v), nil
	case io.Reader:
		return io.ReadAll(v)
	default:
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(v); err != nil {
			return nil, err
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	}
}
