package assistant

import (
	"context"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/httpclient"
)

const (
	pathProjects = "/api/projects/"
	pathSprint   = "/api/assistant/sprint"
	pathRituals  = "/api/assistant/rituals"
	pathFamily   = "/api/assistant/family/reminders"
	pathTool     = "/api/assistant/mcp/tool"
)

// API 是面板依赖的后端能力
type API interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	CreateProject(ctx context.Context, in ProjectCreate) (*Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectUpdate) (*Project, error)
	DeleteProject(ctx context.Context, id string) error
	ProjectsByPriority(ctx context.Context, priority string) ([]Project, error)
	ProjectsByStatus(ctx context.Context, status string) ([]Project, error)

	StartSprint(ctx context.Context, in SprintStart) (*Sprint, error)
	NudgeSprint(ctx context.Context, id, message string) (*SprintNudge, error)
	LogDistraction(ctx context.Context, id, distraction string) (*DistractionLog, error)
	CompleteSprint(ctx context.Context, id, retro string) (*SprintCompletion, error)

	MorningRitual(ctx context.Context) (*Ritual, error)
	EveningRitual(ctx context.Context) (*Ritual, error)
	FamilyReminders(ctx context.Context) (*FamilyReminders, error)

	ExecuteTool(ctx context.Context, call ToolCall) (map[string]any, error)
}

// Client 基于 httpclient 的 API 实现，可并发使用
type Client struct {
	hc       *httpclient.Client
	validate *validator.Validate
}

var _ API = (*Client)(nil)

func New(hc *httpclient.Client) *Client {
	return &Client{
		hc:       hc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HTTP 暴露底层 client，probe 用它发原始请求
func (c *Client) HTTP() *httpclient.Client { return c.hc }

// check 校验失败直接返回，不发请求
func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return errorx.New(errorx.ErrInvalid,
			errorx.WithCause(err),
			errorx.WithDetails(err.Error()))
	}
	return nil
}

func requireID(kind, id string) error {
	if id == "" {
		return errorx.New(errorx.ErrInvalid, errorx.WithDetailsf("%s id is required", kind))
	}
	return nil
}

func requireText(name, v string) error {
	if v == "" {
		return errorx.New(errorx.ErrInvalid, errorx.WithDetailsf("%s is required", name))
	}
	return nil
}

func escape(s string) string { return url.PathEscape(s) }
