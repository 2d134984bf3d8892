// Package tui is the interactive task entry and ranking screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/taskanalyzer/internal/app"
	"github.com/idilsaglam/taskanalyzer/internal/model"
	"github.com/idilsaglam/taskanalyzer/internal/prioritize"
	"github.com/idilsaglam/taskanalyzer/internal/store"
)

// Analyzer ranks a task list. *prioritize.Prioritizer satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, tasks []model.Task) (prioritize.Result, error)
}

type field int

const (
	fieldTitle field = iota
	fieldDue
	fieldHours
	fieldImportance
	fieldCount
)

const (
	minImportance = 1
	maxImportance = 10
	formWidth     = 36
)

// analysisMsg carries the outcome of a background analysis.
type analysisMsg struct {
	res prioritize.Result
	err error
}

// Options wires the model to its collaborators.
type Options struct {
	Analyzer Analyzer
	IDs      *store.IDSource
	Logger   *zap.Logger
}

type Model struct {
	ctx      context.Context
	analyzer Analyzer
	ids      *store.IDSource
	logger   *zap.Logger

	state app.State

	inputs     [fieldImportance]textinput.Model // title, due date, hours
	importance int
	focus      field

	ranked  list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width, height int
}

// rankedItem adapts a ScoredTask to bubbles/list.Item.
type rankedItem struct {
	rank int
	task model.ScoredTask
}

func (i rankedItem) Title() string       { return i.task.Title }
func (i rankedItem) Description() string { return "" }
func (i rankedItem) FilterValue() string { return i.task.Title }

// rankedDelegate renders each ranked task on two lines.
type rankedDelegate struct{}

func (d rankedDelegate) Height() int                               { return 2 }
func (d rankedDelegate) Spacing() int                              { return 1 }
func (d rankedDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rankedDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rankedItem)
	if !ok {
		return
	}
	head := fmt.Sprintf("%s %s  %s",
		accentStyle.Render(fmt.Sprintf("%d.", it.rank)),
		titleStyle.Render(it.task.Title),
		scoreStyle.Render(fmt.Sprintf("%.1f", it.task.PriorityScore)),
	)
	meta := mutedStyle.Render(fmt.Sprintf("   due %s · %gh effort · importance %d",
		it.task.DueDate, it.task.EstimatedHours, it.task.Importance))
	fmt.Fprint(w, head+"\n"+meta)
}

// NewModel builds the initial screen state.
func NewModel(ctx context.Context, opt Options) Model {
	if opt.IDs == nil {
		opt.IDs = store.NewIDSource(nil)
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}

	m := Model{
		ctx:        ctx,
		analyzer:   opt.Analyzer,
		ids:        opt.IDs,
		logger:     opt.Logger,
		importance: store.DefaultImportance,
		keys:       defaultKeyMap(),
		help:       help.New(),
		width:      80,
		height:     24,
	}

	placeholders := [fieldImportance]string{"Task title", "YYYY-MM-DD", "Estimated hours"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		m.inputs[i] = ti
	}
	m.inputs[fieldDue].CharLimit = 10
	m.inputs[fieldHours].CharLimit = 6
	m.resetForm()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = pendingStyle

	l := list.New(nil, rankedDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.Styles.PaginationStyle = helpStyle
	m.ranked = l
	m.layout()
	return m
}

// State exposes the session state, mainly for tests.
func (m Model) State() app.State { return m.state }

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case analysisMsg:
		return m.finishAnalysis(msg), nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Analyze):
			return m.startAnalysis()
		case key.Matches(msg, m.keys.Add):
			return m.addTask()
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			var cmd tea.Cmd
			m.ranked, cmd = m.ranked.Update(msg)
			return m, cmd
		}
		if m.focus == fieldImportance {
			switch {
			case key.Matches(msg, m.keys.Less):
				m.importance = max(minImportance, m.importance-1)
			case key.Matches(msg, m.keys.More):
				m.importance = min(maxImportance, m.importance+1)
			case msg.Type == tea.KeyRunes:
				// typing a digit jumps the slider; "0" means 10
				if n, err := strconv.Atoi(string(msg.Runes)); err == nil {
					if n == 0 {
						n = maxImportance
					}
					m.importance = min(maxImportance, max(minImportance, n))
				}
			}
			return m, nil
		}
	}

	if m.focus >= fieldImportance {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if field(i) == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) resetForm() {
	m.inputs[fieldTitle].SetValue("")
	m.inputs[fieldDue].SetValue("")
	m.inputs[fieldHours].SetValue(strconv.FormatFloat(store.DefaultHours, 'f', -1, 64))
	m.importance = store.DefaultImportance
	m.setFocus(fieldTitle)
}

func (m Model) draft() model.Draft {
	return model.Draft{
		Title:          m.inputs[fieldTitle].Value(),
		DueDate:        strings.TrimSpace(m.inputs[fieldDue].Value()),
		EstimatedHours: m.inputs[fieldHours].Value(),
		Importance:     strconv.Itoa(m.importance),
	}
}

func (m Model) addTask() (tea.Model, tea.Cmd) {
	next, task, err := app.AddTask(m.state, m.draft(), m.ids.Next())
	m.state = next
	if err != nil {
		m.logger.Debug("task rejected", zap.Error(err))
		return m, nil
	}
	m.logger.Info("task added", zap.Int64("id", task.ID), zap.String("title", task.Title))
	m.resetForm()
	return m, textinput.Blink
}

func (m Model) startAnalysis() (tea.Model, tea.Cmd) {
	next, err := app.BeginAnalysis(m.state)
	if err != nil {
		m.state.Notice = app.Notice(err)
		return m, nil
	}
	m.state = next
	return m, tea.Batch(m.spinner.Tick, m.analyze(m.state.Store.Tasks()))
}

func (m Model) analyze(tasks []model.Task) tea.Cmd {
	ctx, analyzer := m.ctx, m.analyzer
	return func() tea.Msg {
		res, err := analyzer.Analyze(ctx, tasks)
		return analysisMsg{res: res, err: err}
	}
}

func (m Model) finishAnalysis(msg analysisMsg) Model {
	if msg.err != nil {
		m.logger.Error("analysis failed", zap.Error(msg.err))
		m.state = app.FailAnalysis(m.state, msg.err)
		return m
	}
	m.state = app.CompleteAnalysis(m.state, msg.res)

	items := make([]list.Item, 0, len(m.state.Ranked))
	for i, st := range m.state.Ranked {
		items = append(items, rankedItem{rank: i + 1, task: st})
	}
	m.ranked.SetItems(items)
	m.ranked.ResetSelected()
	return m
}

func (m *Model) layout() {
	w := m.width - formWidth - 8
	if w < 20 {
		w = 20
	}
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	m.ranked.SetSize(w, h)
}

func (m Model) View() string {
	left := panelStyle.Width(formWidth).Render(m.formView())
	right := panelStyle.Render(m.resultsView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	header := titleStyle.Render("Smart Task Analyzer") + "  " +
		mutedStyle.Render("urgency · importance · effort")
	footer := helpStyle.Render(m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) formView() string {
	label := func(f field, text string) string {
		if m.focus == f {
			return focusedLabel.Render(text)
		}
		return text
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Add Task") + "\n\n")
	b.WriteString(label(fieldTitle, "Title") + "\n" + m.inputs[fieldTitle].View() + "\n")
	b.WriteString(label(fieldDue, "Due date") + "\n" + m.inputs[fieldDue].View() + "\n")
	b.WriteString(label(fieldHours, "Estimated hours") + "\n" + m.inputs[fieldHours].View() + "\n")
	b.WriteString(label(fieldImportance, fmt.Sprintf("Importance: %d/10", m.importance)) + "\n")
	b.WriteString(importanceSlider(m.importance) + "\n\n")

	if m.state.Loading {
		b.WriteString(m.spinner.View() + " Analyzing...\n")
	}
	if m.state.Notice != "" {
		style := errorStyle
		if m.state.Notice == app.NoticeFallback {
			style = pendingStyle
		}
		b.WriteString(style.Render("⚠ "+m.state.Notice) + "\n")
	}

	tasks := m.state.Store.Tasks()
	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("Tasks (%d)", len(tasks))))
	for _, t := range tasks {
		b.WriteString("\n" + mutedStyle.Render("• ") + truncate(t.Title, formWidth-4))
	}
	return b.String()
}

func (m Model) resultsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Prioritized Tasks") + "\n")
	switch m.state.Source {
	case model.SourceRemote:
		b.WriteString(successStyle.Render("✔ Backend API connected") + "\n\n")
	case model.SourceLocal:
		b.WriteString(pendingStyle.Render("⚠ Local scoring used") + "\n\n")
	default:
		b.WriteString("\n")
	}
	if len(m.state.Ranked) == 0 {
		b.WriteString(mutedStyle.Render("No tasks analyzed yet"))
		return b.String()
	}
	b.WriteString(m.ranked.View())
	return b.String()
}

func importanceSlider(v int) string {
	var b strings.Builder
	for i := minImportance; i <= maxImportance; i++ {
		if i <= v {
			b.WriteString(accentStyle.Render("●"))
		} else {
			b.WriteString(mutedStyle.Render("○"))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, opt Options) error {
	p := tea.NewProgram(NewModel(ctx, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
