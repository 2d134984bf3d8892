package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskanalyzer/internal/model"
)

func TestAdd_AppendsTask(t *testing.T) {
	var s Store
	s, task, err := s.Add("Write report", "2024-01-01", 2, 5, 42)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, model.Task{ID: 42, Title: "Write report", DueDate: "2024-01-01", EstimatedHours: 2, Importance: 5}, task)
	assert.Equal(t, []model.Task{task}, s.Tasks())
}

func TestAdd_RejectsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		dueDate string
		field   string
	}{
		{"empty title", "", "2024-01-01", "title"},
		{"blank title", "   ", "2024-01-01", "title"},
		{"empty due date", "A", "", "due_date"},
		{"both empty", "", "", "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Store
			s, _ = mustAdd(t, s, "existing", "2024-01-01")

			next, _, err := s.Add(tt.title, tt.dueDate, 1, 5, 2)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))

			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, 1, next.Len(), "rejected add must not grow the store")
		})
	}
}

func TestAdd_DoesNotMutateReceiver(t *testing.T) {
	var s Store
	s1, _ := mustAdd(t, s, "A", "2024-01-01")
	s2, _ := mustAdd(t, s1, "B", "2024-01-02")

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, s1.Len())
	assert.Equal(t, 2, s2.Len())
}

func TestTasks_ReturnsCopy(t *testing.T) {
	var s Store
	s, _ = mustAdd(t, s, "A", "2024-01-01")

	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	assert.Equal(t, "A", s.Tasks()[0].Title)
}

func TestAddDraft_Coerces(t *testing.T) {
	var s Store
	s, task, err := s.AddDraft(model.Draft{
		Title:          "Ship it",
		DueDate:        "2099-01-01",
		EstimatedHours: "2.5",
		Importance:     "7",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, task.EstimatedHours)
	assert.Equal(t, 7, task.Importance)
	assert.Equal(t, 1, s.Len())
}

func TestAddDraft_Defaults(t *testing.T) {
	var s Store
	_, task, err := s.AddDraft(model.Draft{Title: "A", DueDate: "2099-01-01"}, 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultHours, task.EstimatedHours)
	assert.Equal(t, DefaultImportance, task.Importance)
}

func TestAddDraft_RejectsBadNumbers(t *testing.T) {
	var s Store
	_, _, err := s.AddDraft(model.Draft{Title: "A", DueDate: "2099-01-01", EstimatedHours: "lots"}, 1)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "estimated_hours", ve.Field)

	_, _, err = s.AddDraft(model.Draft{Title: "A", DueDate: "2099-01-01", Importance: "7.5"}, 1)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "importance", ve.Field)
}

func TestIDSource_StrictlyIncreasing(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	ids := NewIDSource(func() time.Time { return fixed })

	a, b, c := ids.Next(), ids.Next(), ids.Next()
	assert.Equal(t, int64(1_700_000_000_000), a)
	assert.Equal(t, a+1, b)
	assert.Equal(t, b+1, c)
}

func TestIDSource_ClockGoesBackwards(t *testing.T) {
	now := time.UnixMilli(2_000)
	ids := NewIDSource(func() time.Time { return now })

	first := ids.Next()
	now = time.UnixMilli(1_000)
	assert.Greater(t, ids.Next(), first)
}

func mustAdd(t *testing.T, s Store, title, due string) (Store, model.Task) {
	t.Helper()
	next, task, err := s.Add(title, due, 1, 5, int64(s.Len()+1))
	require.NoError(t, err)
	return next, task
}
