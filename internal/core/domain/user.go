package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrUsernameTooLong     = errors.New("username is too long (max 80 chars)")
)

const (
	MaxUsernameLen = 80
	passwordCost   = bcrypt.DefaultCost
)

type User struct {
	ID           int64     `json:"user_id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// NormalizeUsername trims the name and enforces the length limit.
func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return "", ErrCredentialsRequired
	case utf8.RuneCountInString(name) > MaxUsernameLen:
		return "", ErrUsernameTooLong
	}
	return name, nil
}

// NewUser builds an account with a hashed password. Both fields are required.
func NewUser(username, password string) (*User, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}

	u := &User{Username: name, CreatedAt: time.Now().UTC()}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) SetPassword(plain string) error {
	if plain == "" {
		return ErrCredentialsRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword returns ErrInvalidCredentials on a mismatch.
func (u *User) CheckPassword(plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
