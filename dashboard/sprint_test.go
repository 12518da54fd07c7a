package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imattdu/assistdash/assistant"
)

func TestRemainingMinutes(t *testing.T) {
	end := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"exact", end.Add(-30 * time.Minute), 30},
		{"partial minute rounds up", end.Add(-29*time.Minute - time.Second), 30},
		{"last second", end.Add(-time.Second), 1},
		{"at end", end, 0},
		{"past end", end.Add(5 * time.Minute), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingMinutes(end, tt.now))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatMinutes(0))
	assert.Equal(t, "0h 45m", FormatMinutes(45))
	assert.Equal(t, "1h 5m", FormatMinutes(65))
	assert.Equal(t, "2h 0m", FormatMinutes(120))
	assert.Equal(t, "0h 0m", FormatMinutes(-3))
}

func TestSprintState(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sp := &assistant.Sprint{
		ID:              "sprint_1",
		Task:            "write",
		DurationMinutes: 45,
		StartTime:       assistant.Timestamp{Time: start},
		EndTime:         assistant.Timestamp{Time: start.Add(45 * time.Minute)},
	}

	var idle SprintState
	assert.False(t, idle.View(start).Active)

	s := idle.Start(sp)
	v := s.View(start.Add(10 * time.Minute))
	require.True(t, v.Active)
	assert.Equal(t, 35, v.Remaining)
	assert.Equal(t, "0h 35m", v.Display)
	assert.False(t, v.Expired)

	s2 := s.WithDistraction("email").WithDistraction("phone")
	assert.Empty(t, s.Current.Distractions)
	assert.Equal(t, []string{"email", "phone"}, s2.Current.Distractions)
	assert.Same(t, s2.Current, s2.WithDistraction("").Current)

	assert.True(t, s2.View(start.Add(time.Hour)).Expired)
	assert.Nil(t, s2.Complete().Current)
}

func TestSprintStateIgnoresFinishedSprint(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	done := &assistant.Sprint{
		ID:              "sprint_2",
		Task:            "review",
		DurationMinutes: 30,
		StartTime:       assistant.Timestamp{Time: start},
		EndTime:         assistant.Timestamp{Time: start.Add(30 * time.Minute)},
		Status:          assistant.SprintCompleted,
	}

	assert.Nil(t, SprintState{}.Start(done).Current)

	v := SprintState{Current: done}.View(start.Add(5 * time.Minute))
	assert.False(t, v.Active)
	assert.Empty(t, v.ID)
	assert.Equal(t, "0h 0m", v.Display)

	active := *done
	active.Status = assistant.SprintActive
	v = SprintState{}.Start(&active).View(start.Add(5 * time.Minute))
	assert.True(t, v.Active)
	assert.Equal(t, 25, v.Remaining)
}
