package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type AuthService struct {
	users domain.UserRepository
}

func NewAuthService(users domain.UserRepository) *AuthService {
	return &AuthService{users: users}
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// Register creates an account. A name that is already taken is
// ErrUsernameTaken, whether the lookup or the insert notices it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name, err := domain.NormalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, domain.ErrCredentialsRequired
	}

	switch _, err := s.users.GetByUsername(ctx, name); {
	case err == nil:
		return nil, domain.ErrUsernameTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("look up username %q: %w", name, err)
	}

	user, err := domain.NewUser(name, in.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user %q: %w", name, err)
	}
	return user, nil
}

// Login returns the account for valid credentials. An unknown name and a
// wrong password are both ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Username)
	if name == "" || in.Password == "" {
		return nil, domain.ErrCredentialsRequired
	}

	user, err := s.users.GetByUsername(ctx, name)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("load user %q: %w", name, err)
	}

	if err := user.CheckPassword(in.Password); err != nil {
		return nil, err
	}
	return user, nil
}
