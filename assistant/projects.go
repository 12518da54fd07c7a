package assistant

import (
	"context"
	"strings"

	"github.com/imattdu/assistdash/httpclient"
)

// projectRoute 指标按模板聚合，不按 id
var projectRoute = httpclient.WithRoute(pathProjects + ":id")

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if _, err := c.hc.GetJSON(ctx, pathProjects, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	if err := requireID("project", id); err != nil {
		return nil, err
	}
	var out Project
	if _, err := c.hc.GetJSON(ctx, pathProjects+escape(id), &out, projectRoute); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject 优先级缺省为 medium
func (c *Client) CreateProject(ctx context.Context, in ProjectCreate) (*Project, error) {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if err := c.check(in); err != nil {
		return nil, err
	}
	var out Project
	if _, err := c.hc.PostJSON(ctx, pathProjects, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject 只更新 patch 里非 nil 的字段
func (c *Client) UpdateProject(ctx context.Context, id string, patch ProjectUpdate) (*Project, error) {
	if err := requireID("project", id); err != nil {
		return nil, err
	}
	if err := c.check(patch); err != nil {
		return nil, err
	}
	var out Project
	if _, err := c.hc.PutJSON(ctx, pathProjects+escape(id), patch, &out, projectRoute); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := requireID("project", id); err != nil {
		return err
	}
	var out struct {
		Message string `json:"message"`
	}
	_, err := c.hc.DeleteJSON(ctx, pathProjects+escape(id), &out, projectRoute)
	return err
}

func (c *Client) ProjectsByPriority(ctx context.Context, priority string) ([]Project, error) {
	return c.listBy(ctx, "priority", priority)
}

func (c *Client) ProjectsByStatus(ctx context.Context, status string) ([]Project, error) {
	return c.listBy(ctx, "status", status)
}

func (c *Client) listBy(ctx context.Context, field, value string) ([]Project, error) {
	if err := requireText(field, value); err != nil {
		return nil, err
	}
	var out []Project
	path := pathProjects + field + "/" + escape(strings.ToLower(value))
	if _, err := c.hc.GetJSON(ctx, path, &out,
		httpclient.WithRoute(pathProjects+field+"/:"+field)); err != nil {
		return nil, err
	}
	return out, nil
}
