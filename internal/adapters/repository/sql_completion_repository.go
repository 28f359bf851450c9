package repository

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.CompletionRepository = (*SQLCompletionRepository)(nil)

type SQLCompletionRepository struct {
	db *sqlx.DB
}

func NewSQLCompletionRepository(db *sqlx.DB) *SQLCompletionRepository {
	return &SQLCompletionRepository{db: db}
}

func (r *SQLCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	query := r.db.Rebind(`INSERT INTO completions (habit_id, date) VALUES (?, ?) RETURNING id`)

	if err := r.db.QueryRowxContext(ctx, query, c.HabitID, c.Date).Scan(&c.ID); err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.ErrAlreadyCompleted
		}
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	return nil
}

func (r *SQLCompletionRepository) Exists(ctx context.Context, habitID int64, day domain.Date) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM completions WHERE habit_id = ? AND date = ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, habitID, day); err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return count > 0, nil
}

func (r *SQLCompletionRepository) ListByHabitIDs(ctx context.Context, habitIDs []int64) ([]*domain.Completion, error) {
	if len(habitIDs) == 0 {
		return []*domain.Completion{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, habit_id, date FROM completions
        WHERE habit_id IN (?)
        ORDER BY date ASC, habit_id ASC`, habitIDs)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return r.selectCompletions(ctx, query, args)
}

func (r *SQLCompletionRepository) ListInRange(ctx context.Context, habitIDs []int64, from, to domain.Date) ([]*domain.Completion, error) {
	if len(habitIDs) == 0 {
		return []*domain.Completion{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, habit_id, date FROM completions
        WHERE habit_id IN (?) AND date >= ? AND date <= ?
        ORDER BY date ASC, habit_id ASC`, habitIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return r.selectCompletions(ctx, query, args)
}

func (r *SQLCompletionRepository) selectCompletions(ctx context.Context, query string, args []interface{}) ([]*domain.Completion, error) {
	list := []*domain.Completion{}
	if err := r.db.SelectContext(ctx, &list, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return list, nil
}

