package assistant

// Project 对应 /api/projects/ 的资源
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	StatusActive     = "active"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusPlanned    = "planned"
	StatusDaily      = "daily"
)

type ProjectCreate struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
}

// ProjectUpdate 只发送非空字段
type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Status      *string `json:"status,omitempty"`
}

type Sprint struct {
	ID              string    `json:"id"`
	Task            string    `json:"task"`
	DurationMinutes int       `json:"duration_minutes"`
	StartTime       Timestamp `json:"start_time"`
	EndTime         Timestamp `json:"end_time"`
	Status          string    `json:"status"`
	Distractions    []string  `json:"distractions"`
}

const (
	SprintActive    = "active"
	SprintCompleted = "completed"
)

type SprintStart struct {
	Task            string `json:"task" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1,max=480"`
	Description     string `json:"description,omitempty"`
}

type SprintNudge struct {
	SprintID  string    `json:"sprint_id"`
	NudgeTime Timestamp `json:"nudge_time"`
	Message   string    `json:"message"`
}

type DistractionLog struct {
	SprintID    string    `json:"sprint_id"`
	Distraction string    `json:"distraction"`
	Timestamp   Timestamp `json:"timestamp"`
}

type SprintCompletion struct {
	SprintID       string    `json:"sprint_id"`
	CompletionTime Timestamp `json:"completion_time"`
	Retrospective  string    `json:"retrospective"`
	Status         string    `json:"status"`
}

type Ritual struct {
	Ritual            string   `json:"ritual"`
	Steps             []string `json:"steps"`
	EstimatedDuration string   `json:"estimated_duration"`
}

type FamilyMembers struct {
	Children      []string `json:"children"`
	Grandchildren []string `json:"grandchildren"`
	Siblings      []string `json:"siblings"`
}

type FamilyReminders struct {
	DailyTasks    []string      `json:"daily_tasks"`
	FamilyMembers FamilyMembers `json:"family_members"`
}

// ToolCall 是 /api/assistant/mcp/tool 的请求体
type ToolCall struct {
	ToolName   string         `json:"tool_name" validate:"required"`
	Parameters map[string]any `json:"parameters"`
}

// ToolSpec 面板上可选的工具及参数提示
type ToolSpec struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
}
