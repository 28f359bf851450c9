package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidGoal        = errors.New("goal must be a positive number of days")
	ErrInvalidCategory    = errors.New("invalid category (must be daily, weekly, or custom)")
)

const (
	CategoryDaily  = "daily"
	CategoryWeekly = "weekly"
	CategoryCustom = "custom"

	MaxNameLen = 100
)

// Habit is the stored definition of a habit. Progress figures are derived
// from its completions, see HabitStat.
type Habit struct {
	ID        int64  `json:"habit_id" db:"id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	Name      string `json:"name" db:"name"`
	Goal      int    `json:"goal" db:"goal"`
	Category  string `json:"category" db:"category"`
	CreatedAt Date   `json:"created_at" db:"created_at"`
}

func normalizeCategory(category string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(category))
	switch c {
	case "":
		return CategoryDaily, nil
	case CategoryDaily, CategoryWeekly, CategoryCustom:
		return c, nil
	default:
		return "", ErrInvalidCategory
	}
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}
	return trimmed, nil
}

func NewHabit(userID int64, name string, goal int, category string, today Date) (*Habit, error) {
	if userID <= 0 {
		return nil, ErrHabitInvalidUserID
	}

	cleanName, err := validateName(name)
	if err != nil {
		return nil, err
	}

	if goal < 1 {
		return nil, ErrInvalidGoal
	}

	cat, err := normalizeCategory(category)
	if err != nil {
		return nil, err
	}

	return &Habit{
		UserID:    userID,
		Name:      cleanName,
		Goal:      goal,
		Category:  cat,
		CreatedAt: today,
	}, nil
}

func (h *Habit) ChangeGoal(goal int) error {
	if goal < 1 {
		return ErrInvalidGoal
	}
	h.Goal = goal
	return nil
}
