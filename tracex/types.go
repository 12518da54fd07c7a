package tracex

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Span struct {
	TraceID string            `json:"trace_id"`
	SpanID  string            `json:"span_id"`
	Parent  string            `json:"parent_span_id,omitempty"`
	Name    string            `json:"name,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Err   error     `json:"-"`
}

// Duration 返回 span 耗时，未结束为 0
func (s *Span) Duration() time.Duration {
	if s == nil || s.Start.IsZero() || s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// SetTag 在 span 上挂一个字符串标签
func (s *Span) SetTag(k, v string) {
	if s == nil {
		return
	}
	if s.Tags == nil {
		s.Tags = make(map[string]string)
	}
	s.Tags[k] = v
}

// newID 32 位 hex，去掉 uuid 的连字符
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
