package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenSubject = errors.New("invalid token subject")
	ErrUnknownUser  = errors.New("token user no longer exists")
)

const userLookupTimeout = 2 * time.Second

// TokenService issues and checks the HS256 bearer tokens handed out on
// register and login. The subject is the numeric user id.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	users  domain.UserRepository
	parser *jwt.Parser
}

func NewTokenService(secret, issuer string, ttl time.Duration, users domain.UserRepository) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		users:  users,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (s *TokenService) GenerateToken(userID int64) (string, error) {
	issued := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token for user %d: %w", userID, err)
	}
	return signed, nil
}

// ValidateToken returns the user id a token was issued for. The user must
// still exist.
func (s *TokenService) ValidateToken(ctx context.Context, raw string) (int64, error) {
	var claims jwt.RegisteredClaims
	if _, err := s.parser.ParseWithClaims(raw, &claims, s.key); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrTokenSubject
	}

	ctx, cancel := context.WithTimeout(ctx, userLookupTimeout)
	defer cancel()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnknownUser, err)
	}
	return userID, nil
}

func (s *TokenService) key(*jwt.Token) (any, error) {
	return s.secret, nil
}
