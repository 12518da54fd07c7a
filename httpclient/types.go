package httpclient

import (
	"context"
	"time"
)

// CallAttempt 单次尝试信息
type CallAttempt struct {
	Attempt   int           `json:"attempt"`
	Status    int           `json:"status"`
	Err       error         `json:"-"`
	Cost      time.Duration `json:"cost"`
	Delay     time.Duration `json:"delay,omitempty"` // 本次失败后的退避
	WillRetry bool          `json:"will_retry"`
}

// CallStats 一次完整调用信息
type CallStats struct {
	Method string `json:"method"`
	URL    string `json:"url"`
	Path   string `json:"path"`
	Route  string `json:"route"`
	Query  string `json:"query"`

	// body 信息（<=1KB 时记录原文）
	Body     string `json:"body,omitempty"`
	BodySize int    `json:"body_size,omitempty"`

	MaxAttempts int           `json:"max_attempts"`
	Attempts    int           `json:"attempts"`
	AttemptsLog []CallAttempt `json:"attempts_log,omitempty"`

	Status int           `json:"status"`
	Err    error         `json:"-"`
	Cost   time.Duration `json:"cost"`
}

// StatsHook 每次调用结束触发一次
type StatsHook func(ctx context.Context, stats *CallStats)

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	dst := make([]byte, len(b))
	copy(dst, b)
	return dst
}
