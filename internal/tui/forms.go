package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/dashboard"
)

type formKind int

const (
	formNone formKind = iota
	formAddHabit
	formEditGoal
)

var categories = []string{domain.CategoryDaily, domain.CategoryWeekly, domain.CategoryCustom}

func requiredField(msg string) func(string) error {
	return func(s string) error {
		if s == "" {
			return &dashboard.ValidationError{Message: msg}
		}
		return nil
	}
}

func newAddHabitForm(name, goal, category *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit name").Value(name).Validate(requiredField(dashboard.MsgFieldsRequired)),
			huh.NewInput().Title("Goal (days)").Value(goal).Validate(requiredField(dashboard.MsgFieldsRequired)),
			huh.NewSelect[string]().Title("Category").Options(huh.NewOptions(categories...)...).Value(category),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func newEditGoalForm(habitName string, goal *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("New goal for " + habitName).Value(goal).Validate(func(s string) error {
				_, err := dashboard.ParseGoal(s)
				return err
			}),
		),
	).WithShowHelp(true).WithShowErrors(true)
}
