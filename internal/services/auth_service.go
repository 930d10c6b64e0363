package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/models"
	pkgauth "github.com/BradenHooton/dashgate/pkg/auth"
	pkglogger "github.com/BradenHooton/dashgate/pkg/logger"
)

// UserRepository is the auth identity storage
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// ProfileEnsurer returns a user's profile, creating it on first use
type ProfileEnsurer interface {
	GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error)
}

// LoginRecorder bumps login statistics
type LoginRecorder interface {
	RecordLogin(ctx context.Context, userID string) error
}

// TokenIssuer signs and verifies JWTs
type TokenIssuer interface {
	IssuePair(ctx context.Context, userID, email string) (*auth.TokenPair, error)
	ValidateToken(ctx context.Context, token string) (*models.TokenClaims, error)
}

// AuthResponse is returned by sign-up, login and refresh
type AuthResponse struct {
	auth.TokenPair
	Profile *models.Profile `json:"profile,omitempty"`
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// compareDummy burns the same bcrypt cost as a real comparison so unknown
// emails are not distinguishable by response time.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = pkgauth.HashPassword("dashgate-dummy-password")
	})
	_ = pkgauth.ComparePassword(dummyHash, password)
}

// AuthService handles sign-up, login and token refresh
type AuthService struct {
	users       UserRepository
	profiles    ProfileEnsurer
	logins      LoginRecorder
	tokens      TokenIssuer
	policy      pkgauth.PasswordPolicy
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserRepository, profiles ProfileEnsurer, logins LoginRecorder, tokens TokenIssuer, policy pkgauth.PasswordPolicy, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		users:       users,
		profiles:    profiles,
		logins:      logins,
		tokens:      tokens,
		policy:      policy,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) audit(ctx context.Context, eventType, userID, email, reason string) {
	meta := RequestMetaFrom(ctx)
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuthEvent{
		EventType:     eventType,
		UserID:        userID,
		Email:         email,
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		Success:       reason == "",
		FailureReason: reason,
	})
}

// SignUp creates an auth identity. The profile is created lazily on first
// use and picks up fullName from the user record.
func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	if email == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrBadRequest)
	}
	if err := s.policy.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	now := time.Now()
	user := &models.User{
		Email:             email,
		PasswordHash:      hash,
		PasswordChangedAt: &now,
	}
	if fullName != "" {
		user.FullName = &fullName
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.audit(ctx, "signup_failed", "", email, "email_taken")
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	pair, err := s.tokens.IssuePair(ctx, created.ID, created.Email)
	if err != nil {
		s.logger.Error("failed to issue tokens", slog.String("user_id", created.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user signed up", slog.String("user_id", created.ID))
	s.audit(ctx, "signup", created.ID, email, "")

	return &AuthResponse{TokenPair: *pair}, nil
}

// Login verifies credentials and issues tokens. Banned accounts are refused;
// suspended and pending accounts get tokens and are stopped by the guard.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, models.ErrUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			compareDummy(password)
			s.audit(ctx, "login_failed", "", email, "invalid_credentials")
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.audit(ctx, "login_failed", user.ID, email, "invalid_credentials")
		return nil, models.ErrUnauthorized
	}

	profile, err := s.profiles.GetOrCreate(ctx, user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to load profile on login", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if profile.Status == models.StatusBanned {
		s.audit(ctx, "login_failed", user.ID, email, "account_banned")
		return nil, models.ErrAccountBanned
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to issue tokens", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.logins.RecordLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record login", slog.String("user_id", user.ID), slog.Any("error", err))
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.audit(ctx, "login_success", user.ID, email, "")

	return &AuthResponse{TokenPair: *pair, Profile: profile}, nil
}

// Refresh exchanges a refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tokens.ValidateToken(ctx, refreshToken)
	if err != nil {
		s.logger.Info("refresh token validation failed", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}
	if claims.Type != models.TokenTypeRefresh {
		s.logger.Warn("refresh attempt with non-refresh token", slog.String("user_id", claims.UserID))
		return nil, models.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user for token refresh", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user.PasswordChangedAt != nil && claims.IssuedAt != nil &&
		claims.IssuedAt.Time.Before(user.PasswordChangedAt.Truncate(time.Second)) {
		s.logger.Info("token refresh blocked: issued before password change", slog.String("user_id", user.ID))
		return nil, models.ErrUnauthorized
	}

	profile, err := s.profiles.GetOrCreate(ctx, user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to load profile on refresh", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if profile.Status == models.StatusBanned {
		s.audit(ctx, "refresh_failed", user.ID, user.Email, "account_banned")
		return nil, models.ErrAccountBanned
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to issue tokens", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("token refreshed", slog.String("user_id", user.ID))
	return &AuthResponse{TokenPair: *pair, Profile: profile}, nil
}
