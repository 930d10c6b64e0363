package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256-signing!"

type stubUsers struct {
	users map[string]*models.User
	err   error
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func newUsers() *stubUsers {
	return &stubUsers{users: map[string]*models.User{
		"user-1": {ID: "user-1", Email: "one@example.com", TokenKey: "key-one"},
	}}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute, time.Hour, newUsers())
	ctx := context.Background()

	pair, err := tm.IssuePair(ctx, "user-1", "one@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := tm.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeAccess, claims.Type)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "one@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)

	refresh, err := tm.ValidateToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeRefresh, refresh.Type)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestTokenManager_RotatedTokenKeyInvalidates(t *testing.T) {
	users := newUsers()
	tm := NewTokenManager(testSecret, 15*time.Minute, time.Hour, users)
	ctx := context.Background()

	token, err := tm.GenerateAccessToken(ctx, "user-1", "one@example.com")
	require.NoError(t, err)

	users.users["user-1"].TokenKey = "rotated"

	_, err = tm.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_DeletedUserRejected(t *testing.T) {
	users := newUsers()
	tm := NewTokenManager(testSecret, 15*time.Minute, time.Hour, users)
	ctx := context.Background()

	token, err := tm.GenerateAccessToken(ctx, "user-1", "one@example.com")
	require.NoError(t, err)

	delete(users.users, "user-1")

	_, err = tm.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute, time.Hour, nil)
	issued := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return issued }

	token, err := tm.GenerateAccessToken(context.Background(), "user-1", "")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute, time.Hour, nil)

	claims := &models.TokenClaims{
		Type:   models.TokenTypeAccess,
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_RejectsUnknownType(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute, time.Hour, nil)

	claims := &models.TokenClaims{
		Type:   "magic",
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_SigningFailsWhenUserLookupFails(t *testing.T) {
	users := &stubUsers{err: errors.New("db down")}
	tm := NewTokenManager(testSecret, time.Minute, time.Hour, users)

	_, err := tm.GenerateAccessToken(context.Background(), "user-1", "")
	assert.Error(t, err)
}
