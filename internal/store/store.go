package store

import (
	"strconv"
	"strings"

	"github.com/idilsaglam/taskanalyzer/internal/model"
)

// Entry-form defaults, used when a numeric field is left blank.
const (
	DefaultHours      = 1.0
	DefaultImportance = 5
)

// Store is the in-memory task list for one session.
// It is a value: Add returns a new Store and never touches the receiver,
// so older snapshots stay valid.
type Store struct {
	tasks []model.Task
}

// Add validates and appends a task with the given id.
func (s Store) Add(title, dueDate string, hours float64, importance int, id int64) (Store, model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return s, model.Task{}, &model.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(dueDate) == "" {
		return s, model.Task{}, &model.ValidationError{Field: "due_date", Reason: "must not be empty"}
	}
	t := model.Task{
		ID:             id,
		Title:          title,
		DueDate:        dueDate,
		EstimatedHours: hours,
		Importance:     importance,
	}
	next := make([]model.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	return Store{tasks: append(next, t)}, t, nil
}

// AddDraft coerces raw form values and adds the result.
func (s Store) AddDraft(d model.Draft, id int64) (Store, model.Task, error) {
	hours := DefaultHours
	if v := strings.TrimSpace(d.EstimatedHours); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, model.Task{}, &model.ValidationError{Field: "estimated_hours", Reason: "not a number: " + v}
		}
		hours = f
	}
	importance := DefaultImportance
	if v := strings.TrimSpace(d.Importance); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, model.Task{}, &model.ValidationError{Field: "importance", Reason: "not an integer: " + v}
		}
		importance = n
	}
	return s.Add(d.Title, d.DueDate, hours, importance, id)
}

// Tasks returns a copy of the list in insertion order.
func (s Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s Store) Len() int { return len(s.tasks) }
