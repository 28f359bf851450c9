package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.HabitRepository = (*SQLHabitRepository)(nil)

// SQLHabitRepository stores habits in Postgres or SQLite. Queries are written
// with ? placeholders and rebound for the connected driver.
type SQLHabitRepository struct {
	db *sqlx.DB
}

func NewSQLHabitRepository(db *sqlx.DB) *SQLHabitRepository {
	return &SQLHabitRepository{db: db}
}

const habitColumns = `id, user_id, name, goal, category, created_at`

func (r *SQLHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := r.db.Rebind(`
        INSERT INTO habits (user_id, name, goal, category, created_at)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query, h.UserID, h.Name, h.Goal, h.Category, h.CreatedAt).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (r *SQLHabitRepository) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	query := r.db.Rebind(`SELECT ` + habitColumns + ` FROM habits WHERE id = ?`)

	var h domain.Habit
	if err := r.db.GetContext(ctx, &h, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &h, nil
}

func (r *SQLHabitRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Habit, error) {
	query := r.db.Rebind(`
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = ?
        ORDER BY id ASC`)

	habits := []*domain.Habit{}
	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return habits, nil
}

func (r *SQLHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := r.db.Rebind(`UPDATE habits SET name = ?, goal = ?, category = ? WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, h.Name, h.Goal, h.Category, h.ID)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes the completions and then the habit inside one transaction.
func (r *SQLHabitRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM completions WHERE habit_id = ?`), id); err != nil {
		return fmt.Errorf("delete completions failed: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM habits WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

func expectOneRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}
