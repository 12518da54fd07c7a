package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imattdu/assistdash/assistant"
	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/logx"
	"github.com/imattdu/assistdash/tracex"
)

const (
	SectionProjects = "projects"
	SectionMorning  = "morning_ritual"
	SectionEvening  = "evening_ritual"
	SectionFamily   = "family"
)

// SectionError 单个区块的失败信息，给前端直接展示
type SectionError struct {
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
	Display   string `json:"display"`
}

func NewSectionError(err error) *SectionError {
	e := errorx.Classify(err)
	if e == nil {
		return nil
	}
	return &SectionError{
		Message:   e.Message,
		Kind:      string(e.Kind),
		Details:   e.Details,
		Retryable: e.Retryable,
		Display:   errorx.FormatForUser(e),
	}
}

type Overview struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Projects    ProjectBoard             `json:"projects"`
	Rituals     []RitualChecklist        `json:"rituals"`
	Family      FamilyBoard              `json:"family"`
	Tools       []assistant.ToolSpec     `json:"tools"`
	Errors      map[string]*SectionError `json:"errors,omitempty"`
}

// Healthy 所有区块都加载成功
func (o *Overview) Healthy() bool { return len(o.Errors) == 0 }

// LoadOverview 并发拉取各区块；单个区块失败不影响其他区块
func LoadOverview(ctx context.Context, api assistant.API, filter ProjectFilter, now time.Time) *Overview {
	var (
		projects         []assistant.Project
		morning, evening *assistant.Ritual
		family           *assistant.FamilyReminders
		errs             = make([]error, 4)
	)

	var g errgroup.Group
	section := func(name string, fn func(context.Context) error) func() error {
		return func() error {
			sctx, span := tracex.StartSpan(ctx, "overview."+name)
			err := fn(sctx)
			tracex.EndSpanExplicit(sctx, span, err)
			return nil
		}
	}
	g.Go(section(SectionProjects, func(ctx context.Context) error {
		projects, errs[0] = api.ListProjects(ctx)
		return errs[0]
	}))
	g.Go(section(SectionMorning, func(ctx context.Context) error {
		morning, errs[1] = api.MorningRitual(ctx)
		return errs[1]
	}))
	g.Go(section(SectionEvening, func(ctx context.Context) error {
		evening, errs[2] = api.EveningRitual(ctx)
		return errs[2]
	}))
	g.Go(section(SectionFamily, func(ctx context.Context) error {
		family, errs[3] = api.FamilyReminders(ctx)
		return errs[3]
	}))
	_ = g.Wait()

	o := &Overview{
		GeneratedAt: now,
		Projects:    NewProjectBoard(projects, filter),
		Rituals:     []RitualChecklist{},
		Family:      NewFamilyBoard(family),
		Tools:       assistant.Catalog(),
	}
	if errs[1] == nil {
		o.Rituals = append(o.Rituals, NewChecklist("morning", morning))
	}
	if errs[2] == nil {
		o.Rituals = append(o.Rituals, NewChecklist("evening", evening))
	}

	sections := []string{SectionProjects, SectionMorning, SectionEvening, SectionFamily}
	for i, err := range errs {
		if err == nil {
			continue
		}
		if o.Errors == nil {
			o.Errors = make(map[string]*SectionError)
		}
		o.Errors[sections[i]] = NewSectionError(err)
		logx.Warn(ctx, logx.TagDashboard, "section failed", logx.Section, sections[i], logx.Err, err)
	}
	return o
}
