package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/idilsaglam/taskanalyzer/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func visibleWidth(s string) int { return utf8.RuneCountInString(ansiRegexp.ReplaceAllString(s, "")) }

// ScoreBar renders score relative to max. Negative scores draw an empty bar.
func ScoreBar(score, max float64, width int) string {
	if width < 5 {
		width = 5
	}
	filled := 0
	if max > 0 && score > 0 {
		filled = int(score / max * float64(width))
	}
	if filled > width {
		filled = width
	}
	t := Current()
	return strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled)
}

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vw := visibleWidth(ln); vw > maxw {
			maxw = vw
		}
	}
	pad := func(s string) string {
		if vis := visibleWidth(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// RankedLines formats a ranked list for Panel.
func RankedLines(ranked []model.ScoredTask, source model.Source) []string {
	t := Current()
	var lines []string
	switch source {
	case model.SourceRemote:
		lines = append(lines, C(t.Success, symCheck+" Backend API connected"))
	case model.SourceLocal:
		lines = append(lines, C(t.Pending, symWarn+" Local scoring used"))
	}
	lines = append(lines, C(t.Title, "Prioritized Tasks"), "")

	if len(ranked) == 0 {
		return append(lines, C(t.Muted, "No tasks analyzed yet"))
	}
	top := ranked[0].PriorityScore
	for i, st := range ranked {
		title := st.Title
		if utf8.RuneCountInString(title) > 60 {
			title = string([]rune(title)[:57]) + "..."
		}
		lines = append(lines,
			fmt.Sprintf("%s %s  %s", C(t.Accent, fmt.Sprintf("%2d.", i+1)), title,
				C(t.Title, fmt.Sprintf("%.1f", st.PriorityScore))),
			C(t.Muted, fmt.Sprintf("    due %s · %gh effort · importance %d", st.DueDate, st.EstimatedHours, st.Importance)),
			"    "+C(t.Accent, ScoreBar(st.PriorityScore, top, 28)),
		)
	}
	return lines
}
