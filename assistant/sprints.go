package assistant

import (
	"context"
	"fmt"

	"github.com/imattdu/assistdash/httpclient"
)

const defaultNudge = "15-minute nudge"

func sprintPath(id, action string) string {
	return fmt.Sprintf("%s/%s/%s", pathSprint, escape(id), action)
}

func sprintRoute(action string) httpclient.RequestOption {
	return httpclient.WithRoute(pathSprint + "/:id/" + action)
}

func (c *Client) StartSprint(ctx context.Context, in SprintStart) (*Sprint, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	var out Sprint
	if _, err := c.hc.PostJSON(ctx, pathSprint+"/start", in, &out); err != nil {
		return nil, err
	}
	if out.Distractions == nil {
		out.Distractions = []string{}
	}
	return &out, nil
}

// NudgeSprint message 为空时用后端默认文案
func (c *Client) NudgeSprint(ctx context.Context, id, message string) (*SprintNudge, error) {
	if err := requireID("sprint", id); err != nil {
		return nil, err
	}
	if message == "" {
		message = defaultNudge
	}
	var out SprintNudge
	_, err := c.hc.PostJSON(ctx, sprintPath(id, "nudge"), nil, &out,
		sprintRoute("nudge"), httpclient.WithQueryParam("message", message))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LogDistraction 后端按 query 取值，body 同时带上一份
func (c *Client) LogDistraction(ctx context.Context, id, distraction string) (*DistractionLog, error) {
	if err := requireID("sprint", id); err != nil {
		return nil, err
	}
	if err := requireText("distraction", distraction); err != nil {
		return nil, err
	}
	var out DistractionLog
	_, err := c.hc.PostJSON(ctx, sprintPath(id, "distraction"),
		map[string]string{"distraction": distraction}, &out,
		sprintRoute("distraction"), httpclient.WithQueryParam("distraction", distraction))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteSprint(ctx context.Context, id, retro string) (*SprintCompletion, error) {
	if err := requireID("sprint", id); err != nil {
		return nil, err
	}
	if err := requireText("retro", retro); err != nil {
		return nil, err
	}
	var out SprintCompletion
	_, err := c.hc.PostJSON(ctx, sprintPath(id, "complete"),
		map[string]string{"retro": retro}, &out,
		sprintRoute("complete"), httpclient.WithQueryParam("retro", retro))
	if err != nil {
		return nil, err
	}
	return &out, nil
}
