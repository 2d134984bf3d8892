package prioritize

import (
	"sort"

	"github.com/idilsaglam/taskanalyzer/internal/model"
)

// LocalScore is the fallback formula. The effort term is not clamped:
// tasks estimated above ten hours get a negative contribution.
func LocalScore(t model.Task) float64 {
	score := float64(t.Importance)*8 + (10-t.EstimatedHours)*2
	if t.DueDate != "" {
		score += 10
	}
	return score
}

// ScoreLocally scores every task and returns them ranked, highest first.
// Equal scores keep their input order.
func ScoreLocally(tasks []model.Task) []model.ScoredTask {
	out := make([]model.ScoredTask, len(tasks))
	for i, t := range tasks {
		out[i] = model.ScoredTask{Task: t, PriorityScore: LocalScore(t)}
	}
	return rank(out)
}

// rank sorts in place, highest score first, keeping the order of ties.
func rank(scored []model.ScoredTask) []model.ScoredTask {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})
	return scored
}
