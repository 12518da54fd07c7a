package errorx

import "errors"

// From 提取 *Error
func From(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// -------------------- 类型判断 --------------------

func IsRetryable(err error) bool {
	e, ok := From(err)
	return ok && e.Retryable
}

func IsKind(err error, k Kind) bool {
	e, ok := From(err)
	return ok && e.Kind == k
}

// KindOf 非 *Error 一律视为 unknown
func KindOf(err error) Kind {
	e, ok := From(err)
	if !ok {
		return KindUnknown
	}
	return e.Kind
}

// StatusOf 返回后端 HTTP 状态码，没有则为 0
func StatusOf(err error) int {
	e, ok := From(err)
	if !ok {
		return 0
	}
	return e.Status
}

// IsCode 按 Kind + Message 判断是否由 code 构造
func IsCode(err error, code CodeEntry) bool {
	e, ok := From(err)
	return ok && e.Kind == code.Kind && e.Message == code.Message
}
