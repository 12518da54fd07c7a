package assistant

import (
	"context"
	"slices"
)

var catalog = []ToolSpec{
	{
		Name:        "send_whatsapp",
		Description: "Send a WhatsApp message to a contact",
		Parameters:  map[string]string{"to": "phone_number", "text": "message_content"},
	},
	{
		Name:        "google_calendar_search",
		Description: "Search Google Calendar for events",
		Parameters:  map[string]string{"query": "search_term", "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD"},
	},
	{
		Name:        "google_drive_search",
		Description: "Search Google Drive for files",
		Parameters:  map[string]string{"query": "search_term", "file_type": "document, spreadsheet, etc."},
	},
	{
		Name:        "send_email",
		Description: "Send an email via configured email service",
		Parameters:  map[string]string{"to": "recipient@email.com", "subject": "email_subject", "body": "email_body"},
	},
	{
		Name:        "create_reminder",
		Description: "Create a new reminder or task",
		Parameters: map[string]string{
			"title":       "reminder_title",
			"description": "reminder_description",
			"due_date":    "YYYY-MM-DD HH:MM",
			"priority":    "high, medium, low",
		},
	},
}

// Catalog 返回已知工具的副本
func Catalog() []ToolSpec {
	out := make([]ToolSpec, len(catalog))
	for i, t := range catalog {
		params := make(map[string]string, len(t.Parameters))
		for k, v := range t.Parameters {
			params[k] = v
		}
		out[i] = ToolSpec{Name: t.Name, Description: t.Description, Parameters: params}
	}
	return out
}

func LookupTool(name string) (ToolSpec, bool) {
	i := slices.IndexFunc(catalog, func(t ToolSpec) bool { return t.Name == name })
	if i < 0 {
		return ToolSpec{}, false
	}
	return Catalog()[i], true
}

// ExecuteTool 结果结构由 MCP 服务决定，按原样返回
func (c *Client) ExecuteTool(ctx context.Context, call ToolCall) (map[string]any, error) {
	if err := c.check(call); err != nil {
		return nil, err
	}
	if call.Parameters == nil {
		call.Parameters = map[string]any{}
	}
	out := map[string]any{}
	if _, err := c.hc.PostJSON(ctx, pathTool, call, &out); err != nil {
		return nil, err
	}
	return out, nil
}
