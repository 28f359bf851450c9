package dashboard

import (
	"strconv"
	"strings"

	"github.com/comitanigiacomo/kanso-habits/internal/session"
)

// ValidationError is a form problem caught before anything is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type HabitForm struct {
	Name     string
	Goal     string
	Category string
}

type NewHabit struct {
	Name     string
	Goal     int
	Category string
}

func ValidateHabitForm(sess session.Session, form HabitForm) (NewHabit, error) {
	if !sess.Valid() {
		return NewHabit{}, &ValidationError{Message: MsgLoginRequired}
	}

	name := strings.TrimSpace(form.Name)
	goalRaw := strings.TrimSpace(form.Goal)
	if name == "" || goalRaw == "" {
		return NewHabit{}, &ValidationError{Message: MsgFieldsRequired}
	}

	goal, err := ParseGoal(goalRaw)
	if err != nil {
		return NewHabit{}, err
	}

	category := strings.TrimSpace(form.Category)
	if category == "" {
		category = "daily"
	}

	return NewHabit{Name: name, Goal: goal, Category: category}, nil
}

// ParseGoal accepts a positive whole number of days.
func ParseGoal(raw string) (int, error) {
	goal, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || goal < 1 {
		return 0, &ValidationError{Message: MsgInvalidGoal}
	}
	return goal, nil
}
