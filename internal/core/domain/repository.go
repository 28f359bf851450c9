package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

type HabitRepository interface {
	// Create persists a new habit definition and sets its ID.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id int64) (*Habit, error)

	// ListByUserID retrieves all habits of a user in creation order.
	ListByUserID(ctx context.Context, userID int64) ([]*Habit, error)

	Update(ctx context.Context, habit *Habit) error

	// Delete removes a habit and all of its completions in one step.
	Delete(ctx context.Context, id int64) error
}

type CompletionRepository interface {
	// Create stores a completion. It returns ErrAlreadyCompleted when the
	// habit already has one for the same day.
	Create(ctx context.Context, c *Completion) error

	Exists(ctx context.Context, habitID int64, day Date) (bool, error)

	// ListByHabitIDs returns every completion of the given habits ordered by date.
	ListByHabitIDs(ctx context.Context, habitIDs []int64) ([]*Completion, error)

	// ListInRange returns completions of the given habits with from <= date <= to,
	// ordered by date and then habit.
	ListInRange(ctx context.Context, habitIDs []int64, from, to Date) ([]*Completion, error)
}

type UserRepository interface {
	// Create stores a new user and sets its ID. It returns ErrUsernameTaken
	// when the username is already registered.
	Create(ctx context.Context, user *User) error

	GetByUsername(ctx context.Context, username string) (*User, error)

	GetByID(ctx context.Context, id int64) (*User, error)
}
