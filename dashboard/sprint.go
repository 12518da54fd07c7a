package dashboard

import (
	"fmt"
	"time"

	"github.com/imattdu/assistdash/assistant"
)

// RemainingMinutes 向上取整，过期后为 0
func RemainingMinutes(end, now time.Time) int {
	d := end.Sub(now)
	if d <= 0 {
		return 0
	}
	m := d / time.Minute
	if d%time.Minute != 0 {
		m++
	}
	return int(m)
}

// FormatMinutes 95 -> "1h 35m"
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// SprintState 当前冲刺，nil Current 表示空闲
type SprintState struct {
	Current *assistant.Sprint
}

type SprintView struct {
	Active       bool     `json:"active"`
	ID           string   `json:"id,omitempty"`
	Task         string   `json:"task,omitempty"`
	Duration     int      `json:"duration_minutes,omitempty"`
	Remaining    int      `json:"remaining_minutes"`
	Display      string   `json:"display"`
	Expired      bool     `json:"expired"`
	Distractions []string `json:"distractions"`
}

func (s SprintState) Start(sp *assistant.Sprint) SprintState {
	if !isActive(sp) {
		return SprintState{}
	}
	cp := *sp
	cp.Distractions = append([]string{}, sp.Distractions...)
	return SprintState{Current: &cp}
}

// WithDistraction 返回追加了干扰记录的新状态
func (s SprintState) WithDistraction(text string) SprintState {
	if s.Current == nil || text == "" {
		return s
	}
	cp := *s.Current
	cp.Distractions = append(append([]string{}, s.Current.Distractions...), text)
	return SprintState{Current: &cp}
}

// Complete 结束后回到空闲
func (s SprintState) Complete() SprintState { return SprintState{} }

// isActive 后端不带 status 时按进行中处理
func isActive(sp *assistant.Sprint) bool {
	return sp != nil && (sp.Status == "" || sp.Status == assistant.SprintActive)
}

func (s SprintState) View(now time.Time) SprintView {
	if !isActive(s.Current) {
		return SprintView{Display: FormatMinutes(0), Distractions: []string{}}
	}
	remaining := RemainingMinutes(s.Current.EndTime.Time, now)
	return SprintView{
		Active:       true,
		ID:           s.Current.ID,
		Task:         s.Current.Task,
		Duration:     s.Current.DurationMinutes,
		Remaining:    remaining,
		Display:      FormatMinutes(remaining),
		Expired:      remaining == 0,
		Distractions: append([]string{}, s.Current.Distractions...),
	}
}
