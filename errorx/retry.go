package errorx

import "time"

// 指数退避：2s, 4s, 8s, 16s，之后固定 30s
var retrySchedule = [...]time.Duration{
	2 * time.Second,
	4 * time.Second,
	8 * time.Second,
	16 * time.Second,
	30 * time.Second,
}

// RetryDelay 第 attempt 次（从 0 开始）失败后的等待时长
func RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= len(retrySchedule) {
		attempt = len(retrySchedule) - 1
	}
	return retrySchedule[attempt]
}

// RetrySchedule 返回退避序列的副本
func RetrySchedule() []time.Duration {
	out := make([]time.Duration, len(retrySchedule))
	copy(out, retrySchedule[:])
	return out
}
