package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imattdu/assistdash/assistant"
)

var sample = []assistant.Project{
	{ID: "1", Priority: "high", Status: "active"},
	{ID: "2", Priority: "medium", Status: "daily"},
	{ID: "3", Priority: "high", Status: "completed"},
	{ID: "4", Priority: "low", Status: "active"},
}

func ids(ps []assistant.Project) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestProjectFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter ProjectFilter
		want   []string
	}{
		{"zero value keeps all", ProjectFilter{}, []string{"1", "2", "3", "4"}},
		{"all wildcard", ProjectFilter{Priority: All, Status: All}, []string{"1", "2", "3", "4"}},
		{"priority", ProjectFilter{Priority: "high", Status: All}, []string{"1", "3"}},
		{"status", ProjectFilter{Priority: All, Status: "active"}, []string{"1", "4"}},
		{"both", ProjectFilter{Priority: "high", Status: "active"}, []string{"1"}},
		{"none", ProjectFilter{Priority: "low", Status: "daily"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(sample)))
		})
	}
}

func TestProjectBoard(t *testing.T) {
	b := NewProjectBoard(sample, ProjectFilter{Priority: "high"})
	require.Len(t, b.Cards, 2)
	assert.Equal(t, "priority-high", b.Cards[0].PriorityBadge)
	assert.Equal(t, "status-active", b.Cards[0].StatusBadge)
	assert.Equal(t, "status-completed", b.Cards[1].StatusBadge)
	assert.Equal(t, 4, b.Summary.Total)
	assert.Equal(t, 2, b.Summary.ByStatus["active"])
	assert.False(t, b.Empty)

	assert.True(t, NewProjectBoard(nil, ProjectFilter{}).Empty)
	assert.Equal(t, "status-progress", StatusBadge("in_progress"))
	assert.Equal(t, "", PriorityBadge("urgent"))
}

func TestRitualChecklist(t *testing.T) {
	c := NewChecklist("morning", &assistant.Ritual{Ritual: "Morning", Steps: []string{"a", "b", "c", "d"}})
	assert.Equal(t, 0, c.Progress())

	c2 := c.Toggle(0).Toggle(2)
	assert.Equal(t, 0, c.DoneCount())
	assert.Equal(t, 50, c2.Progress())
	assert.False(t, c2.Complete())

	c3 := c2.Toggle(1).Toggle(3)
	assert.True(t, c3.Complete())
	assert.Equal(t, 100, c3.Progress())

	assert.Equal(t, 25, c2.Toggle(0).Progress())
	assert.Equal(t, c2, c2.Toggle(9))
	assert.Equal(t, 0, c3.Reset().Progress())
	assert.Equal(t, 0, NewChecklist("x", nil).Progress())

	three := NewChecklist("evening", &assistant.Ritual{Ritual: "Evening", Steps: []string{"a", "b", "c"}})
	assert.Equal(t, 33, three.Toggle(0).Progress())
	assert.Equal(t, 67, three.Toggle(0).Toggle(1).Progress())
	assert.Equal(t, 100, three.Toggle(0).Toggle(1).Toggle(2).Progress())

	seven := NewChecklist("long", &assistant.Ritual{Steps: []string{"1", "2", "3", "4", "5", "6", "7"}})
	assert.Equal(t, 14, seven.Toggle(0).Progress())
	assert.Equal(t, 71, seven.Toggle(0).Toggle(1).Toggle(2).Toggle(3).Toggle(4).Progress())
}

func TestFamilyBoard(t *testing.T) {
	b := NewFamilyBoard(&assistant.FamilyReminders{
		DailyTasks:    []string{"6:00 PM: Reach out to kids", "stretch"},
		FamilyMembers: assistant.FamilyMembers{Children: []string{"Dana"}, Siblings: []string{"Mark"}},
	})
	require.Len(t, b.Tasks, 2)
	assert.Equal(t, DailyTask{Time: "6:00 PM", Task: "Reach out to kids"}, b.Tasks[0])
	assert.Equal(t, DailyTask{Task: "stretch"}, b.Tasks[1])
	assert.Equal(t, []FamilyMember{{Name: "Dana", Relationship: "Child"}, {Name: "Mark", Relationship: "Sibling"}}, b.Members)

	b2, err := b.ToggleTask(0)
	require.NoError(t, err)
	assert.True(t, b2.Tasks[0].Completed)
	assert.False(t, b.Tasks[0].Completed)
	_, err = b.ToggleTask(5)
	assert.ErrorIs(t, err, ErrTaskOutOfRange)

	b3, err := b.AddMember(FamilyMember{Name: " Zorina ", Relationship: "Sister"})
	require.NoError(t, err)
	assert.Len(t, b3.Members, 3)
	assert.Len(t, b.Members, 2)
	assert.Equal(t, "Zorina", b3.Members[2].Name)

	_, err = b3.AddMember(FamilyMember{Name: "zorina", Relationship: "Sister"})
	assert.ErrorIs(t, err, ErrMemberExists)
	_, err = b3.AddMember(FamilyMember{Name: "Sam"})
	assert.ErrorIs(t, err, ErrMemberName)
}

func TestToolPanel(t *testing.T) {
	var p ToolPanel
	_, err := p.Call()
	require.Error(t, err)

	p, err = p.Select("send_email")
	require.NoError(t, err)
	assert.Equal(t, []string{"body", "subject", "to"}, p.Keys())
	assert.Equal(t, "", p.Parameters["to"])

	p2, err := p.Set("to", "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "", p.Parameters["to"])

	_, err = p2.Set("cc", "x")
	assert.Error(t, err)

	call, err := p2.Call()
	require.NoError(t, err)
	assert.Equal(t, "send_email", call.ToolName)
	assert.Equal(t, "a@b.c", call.Parameters["to"])

	p3, err := p2.Select("create_reminder")
	require.NoError(t, err)
	assert.Len(t, p3.Parameters, 4)
	assert.Equal(t, "", p3.Parameters["title"])

	_, err = p2.Select("teleport")
	assert.Error(t, err)
}
