package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/dashboard"
)

func (m Model) View() string {
	v := m.dash.View()

	header := headerStyle.Render(fmt.Sprintf("Habit Tracker: %s", v.Username)) +
		mutedStyle.Render("  Today: "+dashboard.FormatDate(&v.Today))

	var body string
	if m.form != nil {
		body = panelStyle.Render(m.form.View())
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHabits(v),
			lipgloss.JoinHorizontal(lipgloss.Top, m.renderMissed(v.Missed), m.renderHistory(v.History)),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m Model) renderHabits(v dashboard.View) string {
	rows := []string{titleStyle.Render("Your Current Habits")}

	if body, ok := m.placeholder(v.Habits.Status, v.Habits.Err, len(v.Habits.Data), "No habits yet. Press a to add one."); !ok {
		rows = append(rows, body)
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-24s %-14s %6s %7s %12s", "ID", "NAME", "CREATED", "GOAL", "STREAK", "CONSISTENCY")))
		for i, h := range v.Habits.Data {
			line := fmt.Sprintf("%-4d %-24s %-14s %6s %7d %12s",
				h.HabitID, h.Name, dashboard.FormatDate(h.CreatedAt), dashboard.FormatGoal(h.Goal),
				h.CurrentStreak, dashboard.FormatPercent(h.ConsistencyPercent))
			if i == m.cursor {
				rows = append(rows, selectedItemStyle.Render("> "+line))
			} else {
				rows = append(rows, normalItemStyle.Render("  "+line))
			}
		}
		rows = append(rows, "", renderSummary(v.Summary))
	}

	return panelStyle.Render(strings.Join(rows, "\n"))
}

func renderSummary(s domain.Summary) string {
	var parts []string
	if s.Best != nil {
		parts = append(parts, successStyle.Render(fmt.Sprintf("Best Habit: %s - %s consistency", s.Best.Name, dashboard.FormatPercent(s.Best.ConsistencyPercent))))
	}
	if s.Worst != nil {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("Needs Improvement: %s - %s consistency", s.Worst.Name, dashboard.FormatPercent(s.Worst.ConsistencyPercent))))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderMissed(s dashboard.SliceState[[]domain.MissedEntry]) string {
	rows := []string{titleStyle.Render("Missed Habits")}
	if body, ok := m.placeholder(s.Status, s.Err, len(s.Data), "Nothing missed."); !ok {
		rows = append(rows, body)
	} else {
		for _, e := range s.Data {
			when := "today"
			if e.MissedDate != nil {
				when = dashboard.FormatDate(e.MissedDate)
			}
			rows = append(rows, fmt.Sprintf("  %s (%s)", e.Name, when))
		}
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderHistory(s dashboard.SliceState[[]domain.HistoryEntry]) string {
	rows := []string{titleStyle.Render("Completion History")}
	if body, ok := m.placeholder(s.Status, s.Err, len(s.Data), "No completions yet."); !ok {
		rows = append(rows, body)
	} else {
		rows = append(rows, m.chart.View())
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

// placeholder returns the text shown instead of a slice body, or ok=true when
// the slice has rows to draw.
func (m Model) placeholder(status dashboard.Status, errMsg string, rows int, empty string) (string, bool) {
	switch status {
	case dashboard.StatusIdle, dashboard.StatusLoading:
		return m.spinner.View() + " Loading...", false
	case dashboard.StatusError:
		return errorStyle.Render(errMsg), false
	}
	if rows == 0 {
		return mutedStyle.Render(empty), false
	}
	return "", true
}

func (m Model) renderFooter() string {
	status := ""
	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		status = style.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, footerStyle.Render(m.help.View(keys)))
}
