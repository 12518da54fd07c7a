package httpclient

import (
	"context"
	"time"

	"github.com/imattdu/assistdash/errorx"
)

// BackoffFunc 返回第 attempt 次（从 0 开始）失败后需要等待的时长
type BackoffFunc func(attempt int) time.Duration

// SleepFunc 在两次尝试之间挂起，ctx 取消时返回 ctx.Err()
type SleepFunc func(ctx context.Context, d time.Duration) error

// 默认退避：2s, 4s, 8s, 16s, 之后 30s
func defaultBackoff(attempt int) time.Duration {
	return errorx.RetryDelay(attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
