package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/BradenHooton/dashgate/internal/retry"
	"github.com/BradenHooton/dashgate/internal/storage"
	"github.com/gabriel-vasile/mimetype"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	minSearchLength    = 2
)

var allowedAvatarTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// ProfileRepository is the profile storage used by the profile service
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetOrCreate(ctx context.Context, p *models.Profile) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) (*models.Profile, error)
	Search(ctx context.Context, term string, limit int, activeOnly bool) ([]*models.Profile, error)
}

// UserLookup loads auth identities
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AvatarStore holds avatar images
type AvatarStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// SessionInvalidator drops cached session state for a user
type SessionInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// ProfileService manages a user's own profile
type ProfileService struct {
	profiles      ProfileRepository
	users         UserLookup
	avatars       AvatarStore
	invalidator   SessionInvalidator
	maxAvatarSize int64
	logger        *slog.Logger
}

// NewProfileService creates a ProfileService. avatars may be nil when object
// storage is disabled.
func NewProfileService(profiles ProfileRepository, users UserLookup, avatars AvatarStore, maxAvatarSize int64, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profiles:      profiles,
		users:         users,
		avatars:       avatars,
		maxAvatarSize: maxAvatarSize,
		logger:        logger,
	}
}

// SetInvalidator wires the session cache. It is set after construction
// because the session resolver itself loads profiles through this service.
func (s *ProfileService) SetInvalidator(inv SessionInvalidator) {
	s.invalidator = inv
}

func (s *ProfileService) invalidate(ctx context.Context, userID string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
}

// GetOrCreate returns the user's profile, creating the default one on first
// use. ErrNotFound means the user itself no longer exists.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if email == "" {
		email = user.Email
	}

	profile, err = s.profiles.GetOrCreate(ctx, models.NewDefaultProfile(userID, email, user.FullName))
	if err != nil {
		s.logger.Error("failed to create profile",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.Info("profile created", slog.String("user_id", userID))
	return profile, nil
}

// UpdateOwn applies personal field changes. Role and status are not reachable here.
func (s *ProfileService) UpdateOwn(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrBadRequest)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := upd.Apply(profile); err != nil {
		return nil, err
	}
	profile.UpdatedBy = &userID

	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		s.logger.Error("failed to update profile", slog.String("user_id", userID), slog.Any("error", err))
		return nil, err
	}

	s.invalidate(ctx, userID)
	return updated, nil
}

// UploadAvatar stores an image and points the profile at it. The previous
// avatar object is removed best-effort.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, data []byte) (*models.Profile, error) {
	if s.avatars == nil {
		return nil, fmt.Errorf("%w: avatar storage is disabled", models.ErrUnavailable)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", models.ErrBadRequest)
	}
	if s.maxAvatarSize > 0 && int64(len(data)) > s.maxAvatarSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", models.ErrBadRequest, s.maxAvatarSize)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedAvatarTypes...) {
		return nil, fmt.Errorf("%w: unsupported file type %s", models.ErrBadRequest, mt.String())
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := profile.AvatarURL

	key := storage.AvatarKey(userID, mt.Extension())
	var url string
	err = retry.Do(ctx, retry.DefaultAttempts, 200*time.Millisecond, func(ctx context.Context) error {
		var putErr error
		url, putErr = s.avatars.Put(ctx, key, mt.String(), data)
		return putErr
	})
	if err != nil {
		s.logger.Error("failed to upload avatar", slog.String("user_id", userID), slog.Any("error", err))
		return nil, err
	}

	profile.AvatarURL = &url
	profile.UpdatedBy = &userID
	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		return nil, err
	}

	if previous != nil {
		s.removeObject(ctx, *previous)
	}
	s.invalidate(ctx, userID)
	return updated, nil
}

// DeleteAvatar clears avatar_url and removes the stored object
func (s *ProfileService) DeleteAvatar(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.AvatarURL == nil {
		return profile, nil
	}

	previous := *profile.AvatarURL
	profile.AvatarURL = nil
	profile.UpdatedBy = &userID

	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.removeObject(ctx, previous)
	s.invalidate(ctx, userID)
	return updated, nil
}

func (s *ProfileService) removeObject(ctx context.Context, url string) {
	if s.avatars == nil {
		return
	}
	key, ok := s.avatars.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.avatars.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete avatar object", slog.String("key", key), slog.Any("error", err))
	}
}

// Search finds active profiles by name or email
func (s *ProfileService) Search(ctx context.Context, query string, limit int) ([]*models.Profile, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchLength {
		return nil, fmt.Errorf("%w: query must be at least %d characters", models.ErrBadRequest, minSearchLength)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	return s.profiles.Search(ctx, query, limit, true)
}
