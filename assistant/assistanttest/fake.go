// Package assistanttest 提供 assistant.API 的内存实现，供上层测试使用
package assistanttest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/imattdu/assistdash/assistant"
	"github.com/imattdu/assistdash/errorx"
)

// Fake 按后端 mock 数据的行为实现 API；Fail 中的方法名直接返回对应错误
type Fake struct {
	mu       sync.Mutex
	Projects []assistant.Project
	Morning  assistant.Ritual
	Evening  assistant.Ritual
	Family   assistant.FamilyReminders
	Tools    []assistant.ToolCall
	Fail     map[string]error
	Now      func() time.Time
}

var _ assistant.API = (*Fake)(nil)

func New() *Fake {
	ts := assistant.Timestamp{Time: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	return &Fake{
		Projects: []assistant.Project{
			{ID: "1", Name: "Chi Life", Description: "Launch", Priority: "high", Status: "active", CreatedAt: ts, UpdatedAt: ts},
			{ID: "2", Name: "Journaling", Description: "Daily", Priority: "medium", Status: "daily", CreatedAt: ts, UpdatedAt: ts},
			{ID: "3", Name: "Garage", Description: "Cleanup", Priority: "low", Status: "planned", CreatedAt: ts, UpdatedAt: ts},
		},
		Morning: assistant.Ritual{Ritual: "Morning Ritual", Steps: []string{"Cold shower", "Review", "Journaling"}, EstimatedDuration: "20 minutes"},
		Evening: assistant.Ritual{Ritual: "Evening Ritual", Steps: []string{"Charge devices", "Retro"}, EstimatedDuration: "15 minutes"},
		Family: assistant.FamilyReminders{
			DailyTasks: []string{"6:00 PM: Reach out to kids"},
			FamilyMembers: assistant.FamilyMembers{
				Children:      []string{"Dana", "Mira"},
				Grandchildren: []string{"Kaya"},
				Siblings:      []string{"Mark"},
			},
		},
		Fail: map[string]error{},
		Now:  time.Now,
	}
}

func (f *Fake) fail(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Fail[name]
}

// SetFail 让 name 对应的方法返回 err，err 为 nil 时恢复
func (f *Fake) SetFail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.Fail, name)
		return
	}
	f.Fail[name] = err
}

func notFound() error {
	return errorx.Classify(&errorx.StatusError{StatusCode: 404, StatusText: "Not Found"})
}

func (f *Fake) ListProjects(context.Context) ([]assistant.Project, error) {
	if err := f.fail("ListProjects"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]assistant.Project{}, f.Projects...), nil
}

func (f *Fake) GetProject(_ context.Context, id string) (*assistant.Project, error) {
	if err := f.fail("GetProject"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, notFound()
}

func (f *Fake) CreateProject(_ context.Context, in assistant.ProjectCreate) (*assistant.Project, error) {
	if err := f.fail("CreateProject"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := assistant.Timestamp{Time: f.Now()}
	p := assistant.Project{
		ID:          strconv.Itoa(len(f.Projects) + 1),
		Name:        in.Name,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      assistant.StatusPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.Projects = append(f.Projects, p)
	return &p, nil
}

func (f *Fake) UpdateProject(_ context.Context, id string, patch assistant.ProjectUpdate) (*assistant.Project, error) {
	if err := f.fail("UpdateProject"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Projects {
		p := &f.Projects[i]
		if p.ID != id {
			continue
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Priority != nil {
			p.Priority = *patch.Priority
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		p.UpdatedAt = assistant.Timestamp{Time: f.Now()}
		out := *p
		return &out, nil
	}
	return nil, notFound()
}

func (f *Fake) DeleteProject(_ context.Context, id string) error {
	if err := f.fail("DeleteProject"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.Projects {
		if p.ID == id {
			f.Projects = append(f.Projects[:i], f.Projects[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (f *Fake) ProjectsByPriority(ctx context.Context, priority string) ([]assistant.Project, error) {
	return f.filter(ctx, func(p assistant.Project) bool { return p.Priority == priority })
}

func (f *Fake) ProjectsByStatus(ctx context.Context, status string) ([]assistant.Project, error) {
	return f.filter(ctx, func(p assistant.Project) bool { return p.Status == status })
}

func (f *Fake) filter(ctx context.Context, keep func(assistant.Project) bool) ([]assistant.Project, error) {
	all, err := f.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	out := []assistant.Project{}
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) StartSprint(_ context.Context, in assistant.SprintStart) (*assistant.Sprint, error) {
	if err := f.fail("StartSprint"); err != nil {
		return nil, err
	}
	start := f.Now()
	return &assistant.Sprint{
		ID:              fmt.Sprintf("sprint_%s", start.Format("20060102_150405")),
		Task:            in.Task,
		DurationMinutes: in.DurationMinutes,
		StartTime:       assistant.Timestamp{Time: start},
		EndTime:         assistant.Timestamp{Time: start.Add(time.Duration(in.DurationMinutes) * time.Minute)},
		Status:          assistant.SprintActive,
		Distractions:    []string{},
	}, nil
}

func (f *Fake) NudgeSprint(_ context.Context, id, message string) (*assistant.SprintNudge, error) {
	if err := f.fail("NudgeSprint"); err != nil {
		return nil, err
	}
	return &assistant.SprintNudge{SprintID: id, NudgeTime: assistant.Timestamp{Time: f.Now()}, Message: message}, nil
}

func (f *Fake) LogDistraction(_ context.Context, id, distraction string) (*assistant.DistractionLog, error) {
	if err := f.fail("LogDistraction"); err != nil {
		return nil, err
	}
	return &assistant.DistractionLog{SprintID: id, Distraction: distraction, Timestamp: assistant.Timestamp{Time: f.Now()}}, nil
}

func (f *Fake) CompleteSprint(_ context.Context, id, retro string) (*assistant.SprintCompletion, error) {
	if err := f.fail("CompleteSprint"); err != nil {
		return nil, err
	}
	return &assistant.SprintCompletion{
		SprintID:       id,
		CompletionTime: assistant.Timestamp{Time: f.Now()},
		Retrospective:  retro,
		Status:         assistant.SprintCompleted,
	}, nil
}

func (f *Fake) MorningRitual(context.Context) (*assistant.Ritual, error) {
	if err := f.fail("MorningRitual"); err != nil {
		return nil, err
	}
	r := f.Morning
	return &r, nil
}

func (f *Fake) EveningRitual(context.Context) (*assistant.Ritual, error) {
	if err := f.fail("EveningRitual"); err != nil {
		return nil, err
	}
	r := f.Evening
	return &r, nil
}

func (f *Fake) FamilyReminders(context.Context) (*assistant.FamilyReminders, error) {
	if err := f.fail("FamilyReminders"); err != nil {
		return nil, err
	}
	r := f.Family
	return &r, nil
}

func (f *Fake) ExecuteTool(_ context.Context, call assistant.ToolCall) (map[string]any, error) {
	if err := f.fail("ExecuteTool"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.Tools = append(f.Tools, call)
	f.mu.Unlock()
	return map[string]any{"tool": call.ToolName, "status": "ok"}, nil
}
