package domain

import (
	"errors"
	"time"
)

var ErrAlreadyCompleted = errors.New("already marked complete today")

// Completion records that a habit was done on a given day. There is at most
// one completion per habit per day.
type Completion struct {
	ID      int64 `json:"id" db:"id"`
	HabitID int64 `json:"habit_id" db:"habit_id"`
	Date    Date  `json:"date" db:"date"`
}

func NewCompletion(habitID int64, day Date) *Completion {
	return &Completion{
		HabitID: habitID,
		Date:    day,
	}
}

func (c *Completion) Validate() error {
	if c.HabitID <= 0 {
		return errors.New("habit_id is required")
	}
	if c.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// Reminder asks for a nudge about a habit to be delivered to its owner.
type Reminder struct {
	HabitID     int64     `json:"habit_id"`
	UserID      int64     `json:"user_id"`
	HabitName   string    `json:"habit_name"`
	RequestedAt time.Time `json:"requested_at"`
}
