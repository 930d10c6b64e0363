package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserTokenKeyFetcher loads the user whose TokenKey is mixed into the signing key
type UserTokenKeyFetcher interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// TokenPair is what login and refresh hand back to the client
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenManager handles JWT token generation and validation
type TokenManager struct {
	secret             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	users              UserTokenKeyFetcher
	now                func() time.Time
}

// NewTokenManager creates a TokenManager. When users is nil tokens are signed
// with the global secret alone.
func NewTokenManager(secret string, accessExpiry, refreshExpiry time.Duration, users UserTokenKeyFetcher) *TokenManager {
	return &TokenManager{
		secret:             secret,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
		users:              users,
		now:                time.Now,
	}
}

// signingKey returns global_secret + user.TokenKey. Rotating a user's
// TokenKey invalidates every token issued to them.
func (tm *TokenManager) signingKey(ctx context.Context, userID string) ([]byte, error) {
	if tm.users == nil {
		return []byte(tm.secret), nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	user, err := tm.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token key: %w", err)
	}

	return []byte(tm.secret + user.TokenKey), nil
}

func (tm *TokenManager) generate(ctx context.Context, tokenType, userID, email string, ttl time.Duration) (string, error) {
	now := tm.now()
	claims := &models.TokenClaims{
		Type:   tokenType,
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	key, err := tm.signingKey(ctx, userID)
	if err != nil {
		return "", err
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// GenerateAccessToken creates a short-lived access token
func (tm *TokenManager) GenerateAccessToken(ctx context.Context, userID, email string) (string, error) {
	return tm.generate(ctx, models.TokenTypeAccess, userID, email, tm.accessTokenExpiry)
}

// GenerateRefreshToken creates a long-lived refresh token
func (tm *TokenManager) GenerateRefreshToken(ctx context.Context, userID, email string) (string, error) {
	return tm.generate(ctx, models.TokenTypeRefresh, userID, email, tm.refreshTokenExpiry)
}

// IssuePair creates an access and refresh token for the user
func (tm *TokenManager) IssuePair(ctx context.Context, userID, email string) (*TokenPair, error) {
	access, err := tm.GenerateAccessToken(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	refresh, err := tm.GenerateRefreshToken(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(tm.accessTokenExpiry.Seconds()),
	}, nil
}

// ValidateToken verifies a token and returns its claims. Any failure is
// reported as models.ErrUnauthorized.
func (tm *TokenManager) ValidateToken(ctx context.Context, tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		c, ok := token.Claims.(*models.TokenClaims)
		if !ok || c.UserID == "" {
			return nil, errors.New("missing user id")
		}
		return tm.signingKey(ctx, c.UserID)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.Type != models.TokenTypeAccess && claims.Type != models.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: invalid token type", models.ErrUnauthorized)
	}

	return claims, nil
}
