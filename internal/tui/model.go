package tui

import (
	"context"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/dashboard"
)

type habitsLoadedMsg struct {
	tok    dashboard.Token
	habits []domain.HabitStat
	err    error
}

type missedLoadedMsg struct {
	tok    dashboard.Token
	missed []domain.MissedEntry
	err    error
}

type historyLoadedMsg struct {
	tok     dashboard.Token
	history []domain.HistoryEntry
	err     error
}

type actionDoneMsg struct {
	text string
	err  error
}

// Model is the root Bubble Tea model of the habit dashboard.
type Model struct {
	ctx  context.Context
	dash *dashboard.Dashboard

	width  int
	height int
	cursor int

	spinner spinner.Model
	help    help.Model
	chart   barchart.Model

	form     *huh.Form
	formKind formKind
	formHab  int64

	// Form field pointers (survive value copies)
	formName     *string
	formGoal     *string
	formCategory *string

	status    string
	statusErr bool
}

func New(ctx context.Context, dash *dashboard.Dashboard) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = warningStyle

	return Model{
		ctx:          ctx,
		dash:         dash,
		spinner:      s,
		help:         help.New(),
		chart:        buildChart(nil, 60),
		formName:     new(string),
		formGoal:     new(string),
		formCategory: new(string),
	}
}

// Run starts the dashboard in the alternate screen and blocks until it quits.
func Run(ctx context.Context, dash *dashboard.Dashboard) error {
	_, err := tea.NewProgram(New(ctx, dash), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.chart = buildChart(m.dash.View().History.Data, m.chartWidth())
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case habitsLoadedMsg:
		m.dash.Board().ApplyHabits(msg.tok, msg.habits, msg.err)
		m.clampCursor()
		return m, nil

	case missedLoadedMsg:
		m.dash.Board().ApplyMissed(msg.tok, msg.missed, msg.err)
		return m, nil

	case historyLoadedMsg:
		if m.dash.Board().ApplyHistory(msg.tok, msg.history, msg.err) {
			m.chart = buildChart(m.dash.View().History.Data, m.chartWidth())
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.status, m.statusErr = msg.text, false
		m.clampCursor()
		m.chart = buildChart(m.dash.View().History.Data, m.chartWidth())
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.habits())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Refresh):
		m.status = ""
		return m, m.refresh()
	case key.Matches(msg, keys.Add):
		return m.openAddForm()
	case key.Matches(msg, keys.Goal):
		if h, ok := m.selected(); ok {
			return m.openGoalForm(h)
		}
	case key.Matches(msg, keys.Complete):
		if h, ok := m.selected(); ok {
			return m, m.runAction(func(ctx context.Context) (string, error) {
				return m.dash.Complete(ctx, h.HabitID)
			})
		}
	case key.Matches(msg, keys.Delete):
		if h, ok := m.selected(); ok {
			return m, m.runAction(func(ctx context.Context) (string, error) {
				return m.dash.Delete(ctx, h.HabitID)
			})
		}
	case key.Matches(msg, keys.Remind):
		if h, ok := m.selected(); ok {
			return m, m.runAction(func(ctx context.Context) (string, error) {
				return m.dash.Remind(ctx, h.HabitID)
			})
		}
	}
	return m, nil
}

// refresh issues fresh tokens for every slice and fetches them in parallel.
func (m Model) refresh() tea.Cmd {
	return tea.Batch(m.loadHabits(), m.loadMissed(), m.loadHistory(), m.spinner.Tick)
}

func (m Model) loadHabits() tea.Cmd {
	tok := m.dash.Board().Begin(dashboard.SliceHabits)
	return func() tea.Msg {
		habits, err := m.dash.FetchHabits(m.ctx)
		return habitsLoadedMsg{tok: tok, habits: habits, err: err}
	}
}

func (m Model) loadMissed() tea.Cmd {
	tok := m.dash.Board().Begin(dashboard.SliceMissed)
	return func() tea.Msg {
		missed, err := m.dash.FetchMissed(m.ctx)
		return missedLoadedMsg{tok: tok, missed: missed, err: err}
	}
}

func (m Model) loadHistory() tea.Cmd {
	tok := m.dash.Board().Begin(dashboard.SliceHistory)
	return func() tea.Msg {
		history, err := m.dash.FetchHistory(m.ctx)
		return historyLoadedMsg{tok: tok, history: history, err: err}
	}
}

func (m Model) runAction(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := fn(m.ctx)
		return actionDoneMsg{text: text, err: err}
	}
}

func (m Model) openAddForm() (tea.Model, tea.Cmd) {
	*m.formName, *m.formGoal, *m.formCategory = "", "", categories[0]
	m.formKind = formAddHabit
	m.form = newAddHabitForm(m.formName, m.formGoal, m.formCategory)
	return m, m.form.Init()
}

func (m Model) openGoalForm(h domain.HabitStat) (tea.Model, tea.Cmd) {
	*m.formGoal = ""
	m.formKind = formEditGoal
	m.formHab = h.HabitID
	m.form = newEditGoalForm(h.Name, m.formGoal)
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Back) {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.submitForm()
		m.closeForm()
		return m, submit
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m Model) submitForm() tea.Cmd {
	switch m.formKind {
	case formAddHabit:
		form := dashboard.HabitForm{Name: *m.formName, Goal: *m.formGoal, Category: *m.formCategory}
		return m.runAction(func(ctx context.Context) (string, error) {
			return m.dash.AddHabit(ctx, form)
		})
	case formEditGoal:
		id, goal := m.formHab, *m.formGoal
		return m.runAction(func(ctx context.Context) (string, error) {
			return m.dash.EditGoal(ctx, id, goal)
		})
	}
	return nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
	m.formHab = 0
}

func (m Model) habits() []domain.HabitStat {
	return m.dash.View().Habits.Data
}

func (m Model) selected() (domain.HabitStat, bool) {
	habits := m.habits()
	if m.cursor < 0 || m.cursor >= len(habits) {
		return domain.HabitStat{}, false
	}
	return habits[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.habits())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) loading() bool {
	v := m.dash.View()
	return v.Habits.Status == dashboard.StatusLoading ||
		v.Missed.Status == dashboard.StatusLoading ||
		v.History.Status == dashboard.StatusLoading
}

func (m Model) chartWidth() int {
	return m.width - 8
}
