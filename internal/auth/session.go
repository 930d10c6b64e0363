package auth

import (
	"context"

	"github.com/BradenHooton/dashgate/internal/models"
)

// Session is the caller's identity and access, resolved once per request
type Session struct {
	UserID      string
	Email       string
	Profile     *models.Profile
	Permissions []models.Permission
	IsAdmin     bool
}

// NewSession derives the effective access of a profile. Only active profiles
// carry permissions.
func NewSession(userID, email string, profile *models.Profile) *Session {
	s := &Session{
		UserID:  userID,
		Email:   email,
		Profile: profile,
	}
	if profile != nil && profile.IsActive() {
		s.Permissions = models.PermissionsForRole(profile.Role)
		s.IsAdmin = profile.IsAdmin()
	}
	return s
}

// Role returns the profile role, or user when no profile is attached
func (s *Session) Role() models.Role {
	if s == nil || s.Profile == nil {
		return models.RoleUser
	}
	return s.Profile.Role
}

// Can reports whether the session holds perm
func (s *Session) Can(perm models.Permission) bool {
	if s == nil {
		return false
	}
	return models.ContainsPermission(s.Permissions, perm)
}

// WithSession stores s in ctx
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFromContext returns the session placed by SessionResolver
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	return s, ok && s != nil
}
