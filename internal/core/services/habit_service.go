package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var ErrRemindersUnavailable = errors.New("reminders are currently unavailable")

// ReminderQueue accepts reminders for asynchronous delivery. Enqueue reports
// false when the reminder was dropped.
type ReminderQueue interface {
	Enqueue(r domain.Reminder) bool
}

type HabitService struct {
	repo        domain.HabitRepository
	completions domain.CompletionRepository
	users       domain.UserRepository
	clock       Clock
	reminders   ReminderQueue
}

func NewHabitService(repo domain.HabitRepository, completions domain.CompletionRepository, users domain.UserRepository, clock Clock) *HabitService {
	return &HabitService{
		repo:        repo,
		completions: completions,
		users:       users,
		clock:       clock,
	}
}

// WithReminders enables Remind. Without a queue Remind fails with ErrRemindersUnavailable.
func (s *HabitService) WithReminders(q ReminderQueue) *HabitService {
	s.reminders = q
	return s
}

type CreateHabitInput struct {
	UserID   int64
	Name     string
	Goal     int
	Category string
}

type UpdateGoalInput struct {
	ID      int64
	ActorID int64
	Goal    int
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.HabitStat, error) {
	today := s.clock()

	habit, err := domain.NewHabit(input.UserID, input.Name, input.Goal, input.Category, today)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("habit service: failed to create habit: %w", err)
	}

	stat := domain.NewHabitStat(habit, nil, today)
	return &stat, nil
}

func (s *HabitService) ListStats(ctx context.Context, userID int64) ([]domain.HabitStat, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildStats(ctx, s.completions, habits, s.clock())
}

func (s *HabitService) UpdateGoal(ctx context.Context, input UpdateGoalInput) (*domain.HabitStat, error) {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := authorize(habit, input.ActorID); err != nil {
		return nil, err
	}

	if err := habit.ChangeGoal(input.Goal); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	stats, err := buildStats(ctx, s.completions, []*domain.Habit{habit}, s.clock())
	if err != nil {
		return nil, err
	}
	return &stats[0], nil
}

func (s *HabitService) Delete(ctx context.Context, id int64, actorID int64) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(habit, actorID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *HabitService) Remind(ctx context.Context, id int64, actorID int64) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(habit, actorID); err != nil {
		return err
	}

	if s.reminders == nil {
		return ErrRemindersUnavailable
	}

	ok := s.reminders.Enqueue(domain.Reminder{
		HabitID:     habit.ID,
		UserID:      habit.UserID,
		HabitName:   habit.Name,
		RequestedAt: time.Now().UTC(),
	})
	if !ok {
		return ErrRemindersUnavailable
	}
	return nil
}
