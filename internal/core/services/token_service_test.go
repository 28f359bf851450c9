package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

const (
	testSecret = "super-secret-key-for-testing"
	testIssuer = "kanso-test"
)

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestTokenService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{ID: 42}, nil)
	service := NewTokenService(testSecret, testIssuer, time.Hour, users)

	first, err := service.GenerateToken(42)
	require.NoError(t, err)
	second, err := service.GenerateToken(42)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "each token carries its own id")

	userID, err := service.ValidateToken(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	users.AssertExpectations(t)
}

func TestTokenService_Rejects(t *testing.T) {
	ctx := context.Background()
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		token  func(t *testing.T) string
		target error
	}{
		{
			name: "Fail: Expired",
			token: func(t *testing.T) string {
				tok, err := NewTokenService(testSecret, testIssuer, -time.Second, nil).GenerateToken(42)
				require.NoError(t, err)
				return tok
			},
			target: jwt.ErrTokenExpired,
		},
		{
			name: "Fail: Signed with another secret",
			token: func(t *testing.T) string {
				tok, err := NewTokenService("wrong-key", testIssuer, time.Hour, nil).GenerateToken(42)
				require.NoError(t, err)
				return tok
			},
			target: jwt.ErrTokenSignatureInvalid,
		},
		{
			name: "Fail: Issued by someone else",
			token: func(t *testing.T) string {
				tok, err := NewTokenService(testSecret, "other-issuer", time.Hour, nil).GenerateToken(42)
				require.NoError(t, err)
				return tok
			},
			target: jwt.ErrTokenInvalidIssuer,
		},
		{
			name: "Fail: No expiry",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "42", Issuer: testIssuer})
			},
			target: jwt.ErrTokenRequiredClaimMissing,
		},
		{
			name: "Fail: 'none' algorithm",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType,
					jwt.RegisteredClaims{Subject: "42", Issuer: testIssuer, ExpiresAt: future})
			},
			target: ErrInvalidToken,
		},
		{
			name:   "Fail: Not a JWT",
			token:  func(*testing.T) string { return "this-is-not-a-jwt" },
			target: jwt.ErrTokenMalformed,
		},
		{
			name: "Fail: Non numeric subject",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret),
					jwt.RegisteredClaims{Subject: "alice", Issuer: testIssuer, ExpiresAt: future})
			},
			target: ErrTokenSubject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			service := NewTokenService(testSecret, testIssuer, time.Hour, users)

			userID, err := service.ValidateToken(ctx, tt.token(t))

			assert.ErrorIs(t, err, tt.target)
			assert.Zero(t, userID)
			users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestTokenService_DeletedUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrUserNotFound)
	service := NewTokenService(testSecret, testIssuer, time.Hour, users)

	tok, err := service.GenerateToken(42)
	require.NoError(t, err)

	userID, err := service.ValidateToken(context.Background(), tok)

	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Zero(t, userID)
}
