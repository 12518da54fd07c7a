package errorx

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// StatusError 是非 2xx 响应的原始失败，交给 Classify 归类
type StatusError struct {
	StatusCode int
	StatusText string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d %s", e.StatusCode, e.StatusText)
}

func (e *StatusError) HTTPStatus() (int, string) { return e.StatusCode, e.StatusText }

// NewStatusError 从响应构造；status text 取 "503 Service Unavailable" 中的文字部分
func NewStatusError(resp *http.Response, body []byte) *StatusError {
	text := http.StatusText(resp.StatusCode)
	if s := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))); s != "" {
		text = s
	}
	return &StatusError{StatusCode: resp.StatusCode, StatusText: text, Body: body}
}

// statusCarrier 任何能给出状态码的错误都参与 3/4 号规则
type statusCarrier interface {
	HTTPStatus() (int, string)
}

// Classify 把原始失败归一化，按顺序匹配，先中先得：
//  1. CORS
//  2. Failed to fetch / 传输层网络错误 → deployment
//  3. 5xx
//  4. 4xx
//  5. 兜底 network
//
// extra 只作用于新产生的 *Error；已分类的错误原样返回。
func Classify(err error, extra ...Option) *Error {
	if err == nil {
		return nil
	}
	if e, ok := From(err); ok {
		return e
	}

	build := func(code CodeEntry, opts ...Option) *Error {
		opts = append(opts, WithCause(err))
		return New(code, append(opts, extra...)...)
	}

	msg := err.Error()

	if strings.Contains(msg, "CORS") || strings.Contains(msg, "Access-Control-Allow-Origin") {
		return build(ErrCORS, WithDetails(detailCORS))
	}

	if strings.Contains(msg, "Failed to fetch") || isTransportError(err) {
		return build(ErrDeployment, WithDetails(detailDeployment))
	}

	status, text := statusOf(err)
	switch {
	case status >= 500 && status < 600:
		return build(ErrServer,
			WithStatus(status, text),
			WithDetailsf("Server returned %d. The service may be restarting.", status))
	case status >= 400 && status < 500:
		if text == "" {
			text = defaultBadStatus
		}
		return build(ErrRequest,
			WithStatus(status, text),
			WithDetailsf("Error %d: %s", status, text))
	}

	details := msg
	if details == "" {
		details = detailNoConnect
	}
	opts := []Option{WithDetails(details)}
	if status != 0 {
		opts = append(opts, WithStatus(status, text))
	}
	return build(ErrConnection, opts...)
}

func statusOf(err error) (int, string) {
	var sc statusCarrier
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0, ""
}

// isTransportError 连接失败、DNS、超时等请求根本没拿到响应的情况
func isTransportError(err error) bool {
	var ne net.Error
	return errors.As(err, &ne)
}
