package dashboard

import (
	"errors"
	"strings"

	"github.com/imattdu/assistdash/assistant"
)

type DailyTask struct {
	Time      string `json:"time"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

type FamilyMember struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Notes        string `json:"notes,omitempty"`
}

type FamilyBoard struct {
	Tasks   []DailyTask    `json:"daily_tasks"`
	Members []FamilyMember `json:"members"`
}

var (
	ErrMemberName     = errors.New("member name and relationship are required")
	ErrMemberExists   = errors.New("member already on the board")
	ErrTaskOutOfRange = errors.New("task index out of range")
)

// parseTask "6:00 PM: call the kids" -> {6:00 PM, call the kids}
func parseTask(s string) DailyTask {
	if i := strings.Index(s, ": "); i > 0 {
		return DailyTask{Time: strings.TrimSpace(s[:i]), Task: strings.TrimSpace(s[i+2:])}
	}
	return DailyTask{Task: strings.TrimSpace(s)}
}

func NewFamilyBoard(r *assistant.FamilyReminders) FamilyBoard {
	b := FamilyBoard{Tasks: []DailyTask{}, Members: []FamilyMember{}}
	if r == nil {
		return b
	}
	for _, t := range r.DailyTasks {
		b.Tasks = append(b.Tasks, parseTask(t))
	}
	add := func(names []string, rel string) {
		for _, n := range names {
			b.Members = append(b.Members, FamilyMember{Name: n, Relationship: rel})
		}
	}
	add(r.FamilyMembers.Children, "Child")
	add(r.FamilyMembers.Grandchildren, "Grandchild")
	add(r.FamilyMembers.Siblings, "Sibling")
	return b
}

func (b FamilyBoard) ToggleTask(i int) (FamilyBoard, error) {
	if i < 0 || i >= len(b.Tasks) {
		return b, ErrTaskOutOfRange
	}
	out := FamilyBoard{Tasks: append([]DailyTask{}, b.Tasks...), Members: b.Members}
	out.Tasks[i].Completed = !out.Tasks[i].Completed
	return out, nil
}

// AddMember 名字不区分大小写去重
func (b FamilyBoard) AddMember(m FamilyMember) (FamilyBoard, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Relationship = strings.TrimSpace(m.Relationship)
	m.Notes = strings.TrimSpace(m.Notes)
	if m.Name == "" || m.Relationship == "" {
		return b, ErrMemberName
	}
	for _, x := range b.Members {
		if strings.EqualFold(x.Name, m.Name) {
			return b, ErrMemberExists
		}
	}
	out := FamilyBoard{Tasks: b.Tasks, Members: append(append([]FamilyMember{}, b.Members...), m)}
	return out, nil
}
