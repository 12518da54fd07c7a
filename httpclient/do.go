package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/logx"
	"github.com/imattdu/assistdash/tracex"
)

// 非 2xx 时最多读取的响应体，用于拿后端的 detail
const maxErrorBody = 4 << 10

// Fetch 发起请求：拼 URL、合并 header、按退避序列重试。
// 2xx 原样返回响应（调用方负责 Close）；其他结果一律返回 *errorx.Error。
func (c *Client) Fetch(ctx context.Context, endpoint string, opts ...RequestOption) (*http.Response, error) {
	req := &Request{Method: http.MethodGet, Path: endpoint}
	for _, opt := range opts {
		opt(req)
	}
	return c.fetch(ctx, req)
}

func (c *Client) fetch(ctx context.Context, r *Request) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	u, err := c.buildURL(r.Path, r.Query)
	if err != nil {
		return nil, errorx.New(errorx.ErrInvalid, errorx.WithCause(err), errorx.WithDetails(err.Error()))
	}
	body, err := encodeBody(r.Body)
	if err != nil {
		return nil, errorx.New(errorx.ErrInvalid, errorx.WithCause(err), errorx.WithDetails("encode body: "+err.Error()))
	}
	headers := c.mergeHeaders(r.Headers)

	maxRetries := c.maxRetries
	if r.MaxRetries != nil {
		maxRetries = max(*r.MaxRetries, 0)
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}

	stats := &CallStats{
		Method:      method,
		URL:         u,
		Path:        r.Path,
		Route:       routeOf(r),
		Query:       r.Query.Encode(),
		MaxAttempts: maxRetries + 1,
		BodySize:    len(body),
	}
	if len(body) > 0 && len(body) <= 1024 {
		stats.Body = string(body)
	}

	ctx, span := tracex.StartSpan(ctx, "backend "+method+" "+stats.Route)
	begin := time.Now()
	resp, err := c.attemptLoop(ctx, method, u, body, headers, timeout, maxRetries, stats)

	stats.Cost = time.Since(begin)
	stats.Attempts = len(stats.AttemptsLog)
	stats.Err = err
	if resp != nil {
		stats.Status = resp.StatusCode
	} else if e, ok := errorx.From(err); ok {
		stats.Status = e.Status
	}
	c.report(ctx, stats)

	span.SetTag("attempts", strconv.Itoa(stats.Attempts))
	span.SetTag("status", strconv.Itoa(stats.Status))
	if err != nil {
		span.SetTag("kind", string(errorx.KindOf(err)))
	}
	tracex.EndSpanExplicit(ctx, span, err)

	return resp, err
}

// routeOf 未设置模板时退回 endpoint，去掉 query
func routeOf(r *Request) string {
	if r.Route != "" {
		return r.Route
	}
	p, _, _ := strings.Cut(r.Path, "?")
	return p
}

// attemptLoop attempt 取值 0..maxRetries，共 maxRetries+1 次
func (c *Client) attemptLoop(ctx context.Context, method, u string, body []byte, headers http.Header,
	timeout time.Duration, maxRetries int, stats *CallStats) (*http.Response, error) {

	for attempt := 0; attempt <= maxRetries; attempt++ {
		record := CallAttempt{Attempt: attempt + 1}

		var (
			attemptCtx context.Context
			cancel     context.CancelFunc
		)
		if timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		} else {
			attemptCtx, cancel = context.WithCancel(ctx)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		httpReq, err := http.NewRequestWithContext(attemptCtx, method, u, reader)
		if err != nil {
			cancel()
			return nil, errorx.New(errorx.ErrInvalid, errorx.WithCause(err), errorx.WithDetails(err.Error()))
		}
		for k, vs := range headers {
			httpReq.Header[k] = append([]string(nil), vs...)
		}
		tracex.InjectToHeader(ctx, httpReq.Header)

		for _, h := range c.before {
			h(ctx, httpReq)
		}

		start := time.Now()
		resp, err := c.hc.Do(httpReq)
		record.Cost = time.Since(start)

		for _, h := range c.after {
			h(ctx, httpReq, resp, err)
		}

		// 请求没拿到响应
		if err != nil {
			cancel()
			record.Err = err
			if ctxErr := ctx.Err(); ctxErr != nil {
				stats.AttemptsLog = append(stats.AttemptsLog, record)
				return nil, errorx.Canceled(ctxErr)
			}

			ce := errorx.Classify(err)
			if !ce.Retryable || attempt >= maxRetries {
				stats.AttemptsLog = append(stats.AttemptsLog, record)
				return nil, ce
			}
			if err := c.waitRetry(ctx, attempt, &record, stats); err != nil {
				return nil, err
			}
			continue
		}

		record.Status = resp.StatusCode

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			stats.AttemptsLog = append(stats.AttemptsLog, record)
			return resp, nil
		}

		if resp.StatusCode >= 500 && attempt < maxRetries {
			record.Err = errorx.NewStatusError(resp, nil)
			drain(resp)
			cancel()
			if err := c.waitRetry(ctx, attempt, &record, stats); err != nil {
				return nil, err
			}
			continue
		}

		// 4xx，或者 5xx 已无剩余次数
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		cancel()

		se := errorx.NewStatusError(resp, data)
		record.Err = se
		stats.AttemptsLog = append(stats.AttemptsLog, record)

		var extra []errorx.Option
		if d := backendDetail(data); d != "" {
			extra = append(extra, errorx.WithField("detail", d))
		}
		return nil, errorx.Classify(se, extra...)
	}

	return nil, errorx.New(errorx.ErrMaxRetries, errorx.WithDetailsf("gave up after %d attempts", maxRetries+1))
}

// waitRetry 记录本次尝试并按退避序列挂起
func (c *Client) waitRetry(ctx context.Context, attempt int, record *CallAttempt, stats *CallStats) error {
	delay := c.backoff(attempt)
	record.Delay = delay
	record.WillRetry = true
	stats.AttemptsLog = append(stats.AttemptsLog, *record)

	c.log().Warn(ctx, logx.TagHttpRetry, map[string]any{
		logx.Method:   stats.Method,
		logx.Endpoint: stats.Path,
		logx.Attempt:  record.Attempt,
		logx.Status:   record.Status,
		logx.Err:      errString(record.Err),
		logx.Delay:    delay.String(),
	})

	if err := c.sleep(ctx, delay); err != nil {
		return errorx.Canceled(err)
	}
	return nil
}

func (c *Client) report(ctx context.Context, stats *CallStats) {
	kv := map[string]any{
		logx.Method:      stats.Method,
		logx.URL:         stats.URL,
		logx.Endpoint:    stats.Path,
		logx.Route:       stats.Route,
		logx.Status:      stats.Status,
		logx.Attempts:    stats.Attempts,
		logx.MaxAttempts: stats.MaxAttempts,
		logx.Cost:        stats.Cost.Milliseconds(),
	}
	if stats.Err != nil {
		if e, ok := errorx.From(stats.Err); ok {
			kv[logx.Kind] = string(e.Kind)
			kv[logx.Retryable] = e.Retryable
		}
		kv[logx.Err] = stats.Err.Error()
		c.log().Error(ctx, logx.TagHttpFailure, kv)
	} else {
		c.log().Info(ctx, logx.TagHttpSuccess, kv)
	}

	if c.statsHook != nil {
		c.statsHook(ctx, stats)
	}
}

// cancelOnClose 单次尝试的 ctx 要等调用方读完 body 才能释放
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// drain 丢弃剩余 body，方便复用连接
func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

// backendDetail 取后端错误体里的 {"detail": "..."}
func backendDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	return string(payload.Detail)
}

// -------- 解码 --------

// Do 在 Fetch 之上解码响应体：
//   - out == nil ：调用方自己处理 resp.Body（需自行 Close）
//   - io.Writer  ：把响应体复制到 writer
//   - *[]byte    ：填充原始字节
//   - 其他       ：按 JSON Unmarshal
func (c *Client) Do(ctx context.Context, req *Request, out any) (*http.Response, error) {
	resp, err := c.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return resp, nil
	}
	defer resp.Body.Close()

	if w, ok := out.(io.Writer); ok {
		if _, err := io.Copy(w, resp.Body); err != nil {
			return resp, errorx.Classify(err)
		}
		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, errorx.Classify(err)
	}
	if p, ok := out.(*[]byte); ok {
		*p = data
		return resp, nil
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp, errorx.New(errorx.ErrDecode,
			errorx.WithCause(err),
			errorx.WithDetailsf("decode %s: %v", req.Path, err))
	}
	return resp, nil
}

// -------- 便捷方法 --------

func (c *Client) GetJSON(ctx context.Context, path string, out any, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, newRequest(http.MethodGet, path, nil, opts), out)
}

func (c *Client) PostJSON(ctx context.Context, path string, in any, out any, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, newRequest(http.MethodPost, path, in, opts), out)
}

func (c *Client) PutJSON(ctx context.Context, path string, in any, out any, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, newRequest(http.MethodPut, path, in, opts), out)
}

func (c *Client) DeleteJSON(ctx context.Context, path string, out any, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, newRequest(http.MethodDelete, path, nil, opts), out)
}

func newRequest(method, path string, body any, opts []RequestOption) *Request {
	req := &Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(req)
	}
	return req
}
