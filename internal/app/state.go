// Package app holds the session state shared by the TUI and CLI.
// Transitions are pure: each returns a new State and leaves its input alone.
package app

import (
	"errors"
	"fmt"

	"github.com/idilsaglam/taskanalyzer/internal/model"
	"github.com/idilsaglam/taskanalyzer/internal/prioritize"
	"github.com/idilsaglam/taskanalyzer/internal/store"
)

// User-facing notices.
const (
	NoticeMissingFields = "Please enter a title and due date."
	NoticeNoTasks       = "Add tasks before analyzing!"
	NoticeFallback      = "Backend not responding, using local scoring."
	NoticeInFlight      = "Analysis already running."
)

type State struct {
	Store   store.Store
	Ranked  []model.ScoredTask
	Source  model.Source
	Loading bool
	Notice  string
}

// AddTask validates a draft and appends it. On rejection the returned state
// carries the notice and the task list is unchanged.
func AddTask(s State, d model.Draft, id int64) (State, model.Task, error) {
	next, task, err := s.Store.AddDraft(d, id)
	if err != nil {
		s.Notice = Notice(err)
		return s, model.Task{}, err
	}
	s.Store = next
	s.Notice = ""
	return s, task, nil
}

// BeginAnalysis marks an analysis as running. It rejects an empty task list and
// a second analysis while one is pending; the state is returned unchanged then.
func BeginAnalysis(s State) (State, error) {
	if s.Store.Len() == 0 {
		return s, model.ErrEmptyInput
	}
	if s.Loading {
		return s, model.ErrAnalysisInFlight
	}
	s.Loading = true
	s.Notice = ""
	return s, nil
}

// CompleteAnalysis swaps in a new ranked list wholesale.
func CompleteAnalysis(s State, res prioritize.Result) State {
	s.Ranked = res.Tasks
	s.Source = res.Source
	s.Loading = false
	s.Notice = ""
	if res.Err != nil {
		s.Notice = NoticeFallback
	}
	return s
}

// FailAnalysis ends a pending analysis that produced no result.
func FailAnalysis(s State, err error) State {
	s.Loading = false
	s.Notice = Notice(err)
	return s
}

// Connected reports whether the last ranked list came from the scoring service.
func (s State) Connected() bool { return s.Source == model.SourceRemote }

// Notice returns the user-facing text for err.
func Notice(err error) string {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve) && (ve.Field == "title" || ve.Field == "due_date"):
		return NoticeMissingFields
	case errors.As(err, &ve):
		return fmt.Sprintf("Invalid %s: %s", ve.Field, ve.Reason)
	case errors.Is(err, model.ErrEmptyInput):
		return NoticeNoTasks
	case errors.Is(err, model.ErrAnalysisInFlight):
		return NoticeInFlight
	default:
		return err.Error()
	}
}
