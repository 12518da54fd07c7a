package errorx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelay(t *testing.T) {
	want := []time.Duration{2000, 4000, 8000, 16000, 30000}
	for i, ms := range want {
		assert.Equal(t, ms*time.Millisecond, RetryDelay(i), "attempt %d", i)
	}
	for _, i := range []int{4, 5, 10, 1000} {
		assert.Equal(t, 30*time.Second, RetryDelay(i), "attempt %d", i)
	}
	assert.Equal(t, 2*time.Second, RetryDelay(-1))
}

func TestRetryScheduleIsCopy(t *testing.T) {
	s := RetrySchedule()
	s[0] = time.Hour
	assert.Equal(t, 2*time.Second, RetryDelay(0))
}
