package model

// Task is a single unit of work entered by the user.
type Task struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	DueDate        string  `json:"due_date"`
	EstimatedHours float64 `json:"estimated_hours"`
	Importance     int     `json:"importance"`
}

// ScoredTask is a Task annotated with the score it was ranked by.
type ScoredTask struct {
	Task
	PriorityScore float64 `json:"priority_score"`
}

// Draft holds raw entry-form values before coercion.
type Draft struct {
	Title          string `json:"title"`
	DueDate        string `json:"due_date"`
	EstimatedHours string `json:"estimated_hours"`
	Importance     string `json:"importance"`
}

// Source tells where the scores of a ranked list came from.
type Source int

const (
	SourceNone Source = iota
	SourceRemote
	SourceLocal
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceLocal:
		return "local"
	default:
		return "none"
	}
}
