package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type CompletionService struct {
	repo   domain.CompletionRepository
	habits domain.HabitRepository
	clock  Clock
}

func NewCompletionService(repo domain.CompletionRepository, habits domain.HabitRepository, clock Clock) *CompletionService {
	return &CompletionService{
		repo:   repo,
		habits: habits,
		clock:  clock,
	}
}

type HistoryInput struct {
	UserID int64
	Start  domain.Date
	End    domain.Date
}

// Complete marks the habit as done today.
func (s *CompletionService) Complete(ctx context.Context, habitID int64, actorID int64) (*domain.Completion, error) {
	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if err := authorize(habit, actorID); err != nil {
		return nil, err
	}

	completion := domain.NewCompletion(habit.ID, s.clock())
	if err := completion.Validate(); err != nil {
		return nil, err
	}

	done, err := s.repo.Exists(ctx, completion.HabitID, completion.Date)
	if err != nil {
		return nil, fmt.Errorf("completion service: failed to check completion: %w", err)
	}
	if done {
		return nil, domain.ErrAlreadyCompleted
	}

	if err := s.repo.Create(ctx, completion); err != nil {
		return nil, err
	}

	return completion, nil
}

func (s *CompletionService) History(ctx context.Context, input HistoryInput) ([]domain.HistoryEntry, error) {
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if input.Start.After(input.End) {
		return []domain.HistoryEntry{}, nil
	}

	habits, err := s.habits.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	history := make([]domain.HistoryEntry, 0)
	if len(habits) == 0 {
		return history, nil
	}

	names := make(map[int64]string, len(habits))
	ids := make([]int64, 0, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
		ids = append(ids, h.ID)
	}

	list, err := s.repo.ListInRange(ctx, ids, input.Start, input.End)
	if err != nil {
		return nil, fmt.Errorf("completion service: failed to load history: %w", err)
	}

	for _, c := range list {
		history = append(history, domain.HistoryEntry{
			HabitID: c.HabitID,
			Name:    names[c.HabitID],
			Date:    c.Date,
		})
	}
	return history, nil
}

// MissedToday lists the user's habits that have no completion today.
func (s *CompletionService) MissedToday(ctx context.Context, userID int64) ([]domain.MissedEntry, error) {
	habits, err := s.habits.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.clock()
	missed := make([]domain.MissedEntry, 0)
	for _, h := range habits {
		done, err := s.repo.Exists(ctx, h.ID, today)
		if err != nil {
			return nil, fmt.Errorf("completion service: failed to check completion: %w", err)
		}
		if !done {
			missed = append(missed, domain.MissedEntry{HabitID: h.ID, Name: h.Name})
		}
	}
	return missed, nil
}

// MissedPrevious lists, per habit and in date order, every day before today
// since the habit was created on which it was not completed.
func (s *CompletionService) MissedPrevious(ctx context.Context, userID int64) ([]domain.MissedEntry, error) {
	habits, err := s.habits.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	missed := make([]domain.MissedEntry, 0)
	if len(habits) == 0 {
		return missed, nil
	}

	byHabit, err := completionDays(ctx, s.repo, habits)
	if err != nil {
		return nil, err
	}

	today := s.clock()
	for _, h := range habits {
		for _, day := range domain.MissedDays(h, byHabit[h.ID], today) {
			d := day
			missed = append(missed, domain.MissedEntry{HabitID: h.ID, Name: h.Name, MissedDate: &d})
		}
	}
	return missed, nil
}
