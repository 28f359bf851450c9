package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// buildStats derives one HabitStat per habit, keeping the input order.
func buildStats(ctx context.Context, completions domain.CompletionRepository, habits []*domain.Habit, today domain.Date) ([]domain.HabitStat, error) {
	stats := make([]domain.HabitStat, 0, len(habits))
	if len(habits) == 0 {
		return stats, nil
	}

	byHabit, err := completionDays(ctx, completions, habits)
	if err != nil {
		return nil, err
	}

	for _, h := range habits {
		stats = append(stats, domain.NewHabitStat(h, byHabit[h.ID], today))
	}
	return stats, nil
}

func completionDays(ctx context.Context, completions domain.CompletionRepository, habits []*domain.Habit) (map[int64][]domain.Date, error) {
	ids := make([]int64, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}

	list, err := completions.ListByHabitIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	byHabit := make(map[int64][]domain.Date, len(habits))
	for _, c := range list {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c.Date)
	}
	return byHabit, nil
}

// authorize hides habits owned by someone else. An actor id of 0 is an
// anonymous caller and is not checked.
func authorize(h *domain.Habit, actorID int64) error {
	if actorID != 0 && h.UserID != actorID {
		return domain.ErrHabitNotFound
	}
	return nil
}
