package dashboard

import (
	"strings"

	"github.com/imattdu/assistdash/assistant"
)

const All = "all"

type ProjectFilter struct {
	Priority string `form:"priority" json:"priority"`
	Status   string `form:"status" json:"status"`
}

func matches(want, got string) bool {
	return want == "" || strings.EqualFold(want, All) || strings.EqualFold(want, got)
}

func (f ProjectFilter) Match(p assistant.Project) bool {
	return matches(f.Priority, p.Priority) && matches(f.Status, p.Status)
}

// Apply 保持原顺序
func (f ProjectFilter) Apply(projects []assistant.Project) []assistant.Project {
	out := make([]assistant.Project, 0, len(projects))
	for _, p := range projects {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func PriorityBadge(priority string) string {
	switch priority {
	case assistant.PriorityHigh, assistant.PriorityMedium, assistant.PriorityLow:
		return "priority-" + priority
	}
	return ""
}

func StatusBadge(status string) string {
	switch status {
	case assistant.StatusActive:
		return "status-active"
	case assistant.StatusInProgress:
		return "status-progress"
	case assistant.StatusCompleted:
		return "status-completed"
	case assistant.StatusPlanned:
		return "status-planned"
	case assistant.StatusDaily:
		return "status-daily"
	}
	return ""
}

type ProjectCard struct {
	assistant.Project
	PriorityBadge string `json:"priority_badge"`
	StatusBadge   string `json:"status_badge"`
}

type ProjectSummary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

func Summarize(projects []assistant.Project) ProjectSummary {
	s := ProjectSummary{Total: len(projects), ByStatus: map[string]int{}}
	for _, p := range projects {
		s.ByStatus[p.Status]++
	}
	return s
}

type ProjectBoard struct {
	Filter  ProjectFilter  `json:"filter"`
	Cards   []ProjectCard  `json:"projects"`
	Summary ProjectSummary `json:"summary"`
	Empty   bool           `json:"empty"`
}

// NewProjectBoard Summary 统计的是过滤前的全部项目
func NewProjectBoard(projects []assistant.Project, f ProjectFilter) ProjectBoard {
	filtered := f.Apply(projects)
	cards := make([]ProjectCard, len(filtered))
	for i, p := range filtered {
		cards[i] = ProjectCard{Project: p, PriorityBadge: PriorityBadge(p.Priority), StatusBadge: StatusBadge(p.Status)}
	}
	return ProjectBoard{Filter: f, Cards: cards, Summary: Summarize(projects), Empty: len(cards) == 0}
}
