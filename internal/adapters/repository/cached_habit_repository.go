package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
)

const habitListTTL = 30 * time.Minute

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

// CachedHabitRepository keeps each user's habit list in Redis in front of
// another repository. Writes invalidate the owner's entry.
type CachedHabitRepository struct {
	next   domain.HabitRepository
	rdb    *redis.Client
	logger *applog.Logger
}

func NewCachedHabitRepository(next domain.HabitRepository, rdb *redis.Client, logger *applog.Logger) *CachedHabitRepository {
	return &CachedHabitRepository{
		next:   next,
		rdb:    rdb,
		logger: logger.WithComponent(applog.ComponentCache),
	}
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, userID int64) {
	if err := r.rdb.Del(ctx, cache.HabitListKey(userID)).Err(); err != nil {
		r.logger.Warn("failed to invalidate habit list", applog.FieldUserID, userID, applog.FieldError, err)
	}
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Habit, error) {
	key := cache.HabitListKey(userID)

	habits, err := cache.GetJSON[[]*domain.Habit](ctx, r.rdb, key)
	switch {
	case err == nil:
		return habits, nil
	case errors.Is(err, cache.ErrCorrupt):
		r.logger.Warn("corrupted cache entry removed", applog.FieldKey, key)
	case !errors.Is(err, cache.ErrMiss):
		r.logger.Error("redis read error", applog.FieldKey, key, applog.FieldError, err)
	}

	habits, err = r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, r.rdb, key, habits, habitListTTL); err != nil {
		r.logger.Error("redis write error", applog.FieldKey, key, applog.FieldError, err)
	}
	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id int64) error {
	habit, err := r.next.GetByID(ctx, id)
	if err == nil && habit != nil {
		defer r.invalidate(ctx, habit.UserID)
	}

	return r.next.Delete(ctx, id)
}
