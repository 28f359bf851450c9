package services

import (
	"context"
	"errors"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var ErrNoHabits = errors.New("no habits found")

type StatsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	clock          Clock
}

func NewStatsService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository, clock Clock) *StatsService {
	return &StatsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		clock:          clock,
	}
}

// Performance ranks the user's habits by consistency, with the same tie-break
// the dashboard uses.
func (s *StatsService) Performance(ctx context.Context, userID int64) (*domain.Performance, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := buildStats(ctx, s.completionRepo, habits, s.clock())
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, ErrNoHabits
	}

	summary := domain.RankByConsistency(stats)
	return &domain.Performance{
		Best:  *summary.Best,
		Worst: *summary.Worst,
		All:   stats,
	}, nil
}
