package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.UserRepository = (*SQLUserRepository)(nil)

type SQLUserRepository struct {
	db *sqlx.DB
}

func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{
		db: db,
	}
}

func (r *SQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := r.db.Rebind(`
		INSERT INTO users (username, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("repository: create user failed: %w", err)
	}

	return nil
}

func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE username = ?`, username)
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *SQLUserRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := r.db.Rebind(`SELECT id, username, password_hash, created_at FROM users ` + where)

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: get user failed: %w", err)
	}

	return &user, nil
}
