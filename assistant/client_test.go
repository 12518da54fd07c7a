package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/httpclient"
	"github.com/imattdu/assistdash/logx"
)

type seen struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]any
}

type fakeBackend struct {
	mu     sync.Mutex
	calls  []seen
	routes map[string]string
	status int
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.calls = append(f.calls, seen{Method: r.Method, Path: r.URL.EscapedPath(), Query: r.URL.Query(), Body: body})
	status := f.status
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"detail":"Project not found"}`)
		return
	}
	resp, ok := f.routes[r.Method+" "+r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		return
	}
	_, _ = io.WriteString(w, resp)
}

func (f *fakeBackend) last(t *testing.T) seen {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestAPI(t *testing.T, routes map[string]string, opts ...httpclient.Option) (*Client, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{routes: routes}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	hc, err := httpclient.New(append([]httpclient.Option{
		httpclient.WithBaseURL(srv.URL),
		httpclient.WithLogger(logx.Nop()),
		httpclient.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
	}, opts...)...)
	require.NoError(t, err)
	return New(hc), fb
}

const projectJSON = `{"id":"1","name":"Chi Life","description":"Launch","priority":"high","status":"active",
"created_at":"2024-05-01T09:30:00.123456","updated_at":"2024-05-02T10:00:00Z"}`

func TestProjects(t *testing.T) {
	api, fb := newTestAPI(t, map[string]string{
		"GET /api/projects/":              "[" + projectJSON + "]",
		"GET /api/projects/1":             projectJSON,
		"POST /api/projects/":             projectJSON,
		"PUT /api/projects/1":             projectJSON,
		"DELETE /api/projects/1":          `{"message":"Project 'Chi Life' deleted successfully"}`,
		"GET /api/projects/priority/high": "[" + projectJSON + "]",
		"GET /api/projects/status/active": "[]",
	})
	ctx := context.Background()

	list, err := api.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Chi Life", list[0].Name)
	assert.Equal(t, 2024, list[0].CreatedAt.Year())
	assert.Equal(t, 123456000, list[0].CreatedAt.Nanosecond())

	p, err := api.GetProject(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p.Priority)

	_, err = api.CreateProject(ctx, ProjectCreate{Name: "n", Description: "d"})
	require.NoError(t, err)
	last := fb.last(t)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "medium", last.Body["priority"])

	status := StatusCompleted
	_, err = api.UpdateProject(ctx, "1", ProjectUpdate{Status: &status})
	require.NoError(t, err)
	last = fb.last(t)
	assert.Equal(t, map[string]any{"status": "completed"}, last.Body)

	require.NoError(t, api.DeleteProject(ctx, "1"))
	assert.Equal(t, http.MethodDelete, fb.last(t).Method)

	high, err := api.ProjectsByPriority(ctx, "HIGH")
	require.NoError(t, err)
	assert.Len(t, high, 1)
	assert.Equal(t, "/api/projects/priority/high", fb.last(t).Path)

	active, err := api.ProjectsByStatus(ctx, "active")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestProjectValidation(t *testing.T) {
	api, fb := newTestAPI(t, nil)
	ctx := context.Background()

	_, err := api.CreateProject(ctx, ProjectCreate{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, errorx.ErrInvalid.Message, errorx.Classify(err).Message)

	bad := "urgent"
	_, err = api.UpdateProject(ctx, "1", ProjectUpdate{Priority: &bad})
	require.Error(t, err)

	_, err = api.GetProject(ctx, "")
	require.Error(t, err)
	require.Error(t, api.DeleteProject(ctx, ""))
	_, err = api.ProjectsByStatus(ctx, "")
	require.Error(t, err)

	assert.Zero(t, fb.count())
}

func TestProjectNotFound(t *testing.T) {
	api, fb := newTestAPI(t, nil)
	fb.mu.Lock()
	fb.status = http.StatusNotFound
	fb.mu.Unlock()

	_, err := api.GetProject(context.Background(), "missing")
	require.Error(t, err)
	e, ok := errorx.From(err)
	require.True(t, ok)
	assert.Equal(t, errorx.KindServer, e.Kind)
	assert.False(t, e.Retryable)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Equal(t, "Project not found", e.Fields["detail"])
	assert.Equal(t, 1, fb.count())
}

func TestCallRoutes(t *testing.T) {
	var (
		mu     sync.Mutex
		routes []string
		paths  []string
	)
	api, _ := newTestAPI(t, map[string]string{
		"GET /api/projects/":                         `[]`,
		"GET /api/projects/p-1":                      projectJSON,
		"GET /api/projects/p-2":                      projectJSON,
		"GET /api/projects/priority/high":            `[]`,
		"POST /api/assistant/sprint/s-1/distraction": `{"sprint_id":"s-1","distraction":"x","timestamp":"2024-05-01T09:20:00"}`,
		"POST /api/assistant/sprint/s-2/distraction": `{"sprint_id":"s-2","distraction":"x","timestamp":"2024-05-01T09:20:00"}`,
	}, httpclient.WithStatsHook(func(_ context.Context, s *httpclient.CallStats) {
		mu.Lock()
		defer mu.Unlock()
		routes = append(routes, s.Route)
		paths = append(paths, s.Path)
	}))
	ctx := context.Background()

	_, err := api.ListProjects(ctx)
	require.NoError(t, err)
	for _, id := range []string{"p-1", "p-2"} {
		_, err = api.GetProject(ctx, id)
		require.NoError(t, err)
	}
	_, err = api.ProjectsByPriority(ctx, "HIGH")
	require.NoError(t, err)
	for _, id := range []string{"s-1", "s-2"} {
		_, err = api.LogDistraction(ctx, id, "x")
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"/api/projects/",
		"/api/projects/:id",
		"/api/projects/:id",
		"/api/projects/priority/:priority",
		"/api/assistant/sprint/:id/distraction",
		"/api/assistant/sprint/:id/distraction",
	}, routes)
	assert.Equal(t, "/api/projects/p-2", paths[2])
}

func TestSprints(t *testing.T) {
	api, fb := newTestAPI(t, map[string]string{
		"POST /api/assistant/sprint/start": `{"id":"sprint_1","task":"write","duration_minutes":45,
"start_time":"2024-05-01T09:00:00","end_time":"2024-05-01T09:45:00","status":"active"}`,
		"POST /api/assistant/sprint/sprint_1/nudge":       `{"sprint_id":"sprint_1","nudge_time":"2024-05-01T09:15:00","message":"15-minute nudge"}`,
		"POST /api/assistant/sprint/sprint_1/distraction": `{"sprint_id":"sprint_1","distraction":"email","timestamp":"2024-05-01T09:20:00"}`,
		"POST /api/assistant/sprint/sprint_1/complete":    `{"sprint_id":"sprint_1","completion_time":"2024-05-01T09:45:00","retrospective":"done","status":"completed"}`,
	})
	ctx := context.Background()

	s, err := api.StartSprint(ctx, SprintStart{Task: "write", DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, s.EndTime.Sub(s.StartTime.Time))
	assert.NotNil(t, s.Distractions)
	assert.Equal(t, float64(45), fb.last(t).Body["duration_minutes"])

	n, err := api.NudgeSprint(ctx, s.ID, "")
	require.NoError(t, err)
	assert.Equal(t, defaultNudge, n.Message)
	assert.Equal(t, []string{defaultNudge}, fb.last(t).Query["message"])

	d, err := api.LogDistraction(ctx, s.ID, "email")
	require.NoError(t, err)
	assert.Equal(t, "email", d.Distraction)
	last := fb.last(t)
	assert.Equal(t, []string{"email"}, last.Query["distraction"])
	assert.Equal(t, "email", last.Body["distraction"])

	c, err := api.CompleteSprint(ctx, s.ID, "done")
	require.NoError(t, err)
	assert.Equal(t, SprintCompleted, c.Status)
	assert.Equal(t, []string{"done"}, fb.last(t).Query["retro"])
}

func TestSprintValidation(t *testing.T) {
	api, fb := newTestAPI(t, nil)
	ctx := context.Background()

	_, err := api.StartSprint(ctx, SprintStart{Task: "write"})
	require.Error(t, err)
	_, err = api.StartSprint(ctx, SprintStart{DurationMinutes: 30})
	require.Error(t, err)
	_, err = api.LogDistraction(ctx, "sprint_1", "")
	require.Error(t, err)
	_, err = api.CompleteSprint(ctx, "", "retro")
	require.Error(t, err)

	assert.Zero(t, fb.count())
}

func TestRitualsAndFamily(t *testing.T) {
	api, _ := newTestAPI(t, map[string]string{
		"GET /api/assistant/rituals/morning": `{"ritual":"Morning Ritual","steps":["Cold shower","Journaling"],"estimated_duration":"20 minutes"}`,
		"GET /api/assistant/rituals/evening": `{"ritual":"Evening Ritual","steps":["Charge devices"],"estimated_duration":"15 minutes"}`,
		"GET /api/assistant/family/reminders": `{"daily_tasks":["6:00 PM: call the kids"],
"family_members":{"children":["Dana"],"grandchildren":["Kaya","Luke"],"siblings":["Mark"]}}`,
	})
	ctx := context.Background()

	m, err := api.MorningRitual(ctx)
	require.NoError(t, err)
	assert.Len(t, m.Steps, 2)

	e, err := api.EveningRitual(ctx)
	require.NoError(t, err)
	assert.Equal(t, "15 minutes", e.EstimatedDuration)

	f, err := api.FamilyReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kaya", "Luke"}, f.FamilyMembers.Grandchildren)
}

func TestExecuteTool(t *testing.T) {
	api, fb := newTestAPI(t, map[string]string{
		"POST /api/assistant/mcp/tool": `{"status":"sent","id":42}`,
	})

	out, err := api.ExecuteTool(context.Background(), ToolCall{
		ToolName:   "send_whatsapp",
		Parameters: map[string]any{"to": "+100", "text": "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sent", out["status"])

	last := fb.last(t)
	assert.Equal(t, "send_whatsapp", last.Body["tool_name"])
	assert.Equal(t, map[string]any{"to": "+100", "text": "hi"}, last.Body["parameters"])

	_, err = api.ExecuteTool(context.Background(), ToolCall{})
	require.Error(t, err)
}

func TestCatalog(t *testing.T) {
	tools := Catalog()
	require.Len(t, tools, 5)
	assert.Equal(t, "send_whatsapp", tools[0].Name)

	tools[0].Parameters["to"] = "mutated"
	again, ok := LookupTool("send_whatsapp")
	require.True(t, ok)
	assert.Equal(t, "phone_number", again.Parameters["to"])

	_, ok = LookupTool("nope")
	assert.False(t, ok)
}

func TestTimestamp(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01 09:30:00"`), &ts))
	assert.Equal(t, 9, ts.Hour())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	b, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
