package errorx

import (
	"errors"
	"fmt"
	"strings"
)

// Error 是归一化后的失败描述：kind + message + 可选 details + retryable。
// 由 Classify / New 产生之后不再修改。
type Error struct {
	Kind       Kind           `json:"kind"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	Retryable  bool           `json:"retryable"`
	Status     int            `json:"status,omitempty"`
	StatusText string         `json:"status_text,omitempty"`
	Cause      error          `json:"-"`
	Fields     map[string]any `json:"fields,omitempty"`
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "kind=%s msg=%s", e.Kind, e.Message)
	if e.Status != 0 {
		fmt.Fprintf(&b, " status=%d", e.Status)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, " details=%q", e.Details)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " cause=%v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// -------------------- Option --------------------

type Option func(*Error)

func WithMessage(msg string) Option {
	return func(e *Error) { e.Message = msg }
}

func WithDetails(details string) Option {
	return func(e *Error) { e.Details = details }
}

func WithDetailsf(f string, args ...any) Option {
	return func(e *Error) { e.Details = fmt.Sprintf(f, args...) }
}

func WithCause(err error) Option {
	return func(e *Error) { e.Cause = err }
}

func WithStatus(code int, text string) Option {
	return func(e *Error) {
		e.Status = code
		e.StatusText = text
	}
}

func WithRetryable(retryable bool) Option {
	return func(e *Error) { e.Retryable = retryable }
}

func WithField(k string, v any) Option {
	return func(e *Error) {
		if e.Fields == nil {
			e.Fields = make(map[string]any)
		}
		e.Fields[k] = v
	}
}

func WithFields(kv map[string]any) Option {
	return func(e *Error) {
		if len(kv) == 0 {
			return
		}
		if e.Fields == nil {
			e.Fields = make(map[string]any, len(kv))
		}
		for k, v := range kv {
			e.Fields[k] = v
		}
	}
}

// -------------------- 构造函数 --------------------

func New(code CodeEntry, opts ...Option) *Error {
	e := &Error{
		Kind:      code.Kind,
		Message:   code.Message,
		Retryable: code.Retryable,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func Newf(code CodeEntry, f string, args ...any) *Error {
	return New(code, WithDetails(fmt.Sprintf(f, args...)))
}

// Canceled 调用方放弃（ctx 取消 / 超时），不再重试
func Canceled(err error) *Error {
	return New(ErrCanceled, WithCause(err), WithDetails(err.Error()))
}

// -------------------- Wrap --------------------

// Wrap 把任意 error 包成 *Error；已经是 *Error 的原样返回，保证结果不可变
func Wrap(err error, code CodeEntry, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	opts = append([]Option{WithCause(err)}, opts...)
	return New(code, opts...)
}
