package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/models"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
)

const (
	avatarFormField = "avatar"
	dateLayout      = "2006-01-02"
)

// ProfileService defines the self-service profile operations
type ProfileService interface {
	UpdateOwn(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID string, data []byte) (*models.Profile, error)
	DeleteAvatar(ctx context.Context, userID string) (*models.Profile, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Profile, error)
}

// ProfileHandler serves the caller's own profile
type ProfileHandler struct {
	service       ProfileService
	maxAvatarSize int64
	logger        *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileService, maxAvatarSize int64, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, maxAvatarSize: maxAvatarSize, logger: logger}
}

// UpdateProfileRequest carries the personal fields a user may edit. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	FullName          *string `json:"full_name" validate:"omitempty,max=200"`
	Bio               *string `json:"bio" validate:"omitempty,max=1000"`
	Website           *string `json:"website" validate:"omitempty,url,max=500"`
	Location          *string `json:"location" validate:"omitempty,max=200"`
	Phone             *string `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth       *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PreferredLanguage *string `json:"preferred_language" validate:"omitempty,oneof=en th"`
}

// toUpdate converts the request into a model update
func (req UpdateProfileRequest) toUpdate() (models.ProfileUpdate, error) {
	upd := models.ProfileUpdate{
		FullName:          trimmed(req.FullName),
		Bio:               req.Bio,
		Website:           trimmed(req.Website),
		Location:          trimmed(req.Location),
		Phone:             trimmed(req.Phone),
		PreferredLanguage: req.PreferredLanguage,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return upd, err
		}
		if dob.After(time.Now()) {
			return upd, errors.New("date_of_birth: must be in the past")
		}
		upd.DateOfBirth = &dob
	}
	return upd, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// sessionOrUnauthorized fetches the resolved session, answering 401 when
// the route was mounted without the resolver.
func sessionOrUnauthorized(w http.ResponseWriter, r *http.Request) (*auth.Session, bool) {
	s, ok := auth.SessionFromContext(r.Context())
	if !ok || s.Profile == nil {
		pkghttp.WriteUnauthorized(w, "authentication required")
		return nil, false
	}
	return s, true
}

// UpdateProfile handles PUT /me/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		pkghttp.WriteBadRequest(w, "validation failed: "+err.Error())
		return
	}

	profile, err := h.service.UpdateOwn(r.Context(), s.UserID, upd)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// UploadAvatar handles POST /me/avatar with a multipart "avatar" file
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	// Room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxAvatarSize+64<<10)
	file, _, err := r.FormFile(avatarFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			pkghttp.WriteBadRequest(w, "avatar exceeds the maximum size")
			return
		}
		pkghttp.WriteBadRequest(w, "multipart field \"avatar\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxAvatarSize+1))
	if err != nil {
		pkghttp.WriteBadRequest(w, "failed to read avatar")
		return
	}

	profile, err := h.service.UploadAvatar(r.Context(), s.UserID, data)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// DeleteAvatar handles DELETE /me/avatar
func (h *ProfileHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	profile, err := h.service.DeleteAvatar(r.Context(), s.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// ProfileSummary is the public view of a profile returned by search
type ProfileSummary struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	FullName  *string `json:"full_name,omitempty"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func summarize(p *models.Profile) ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
	}
}

// Search handles GET /profiles/search?q=&limit=
func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	profiles, err := h.service.Search(r.Context(), q.Get("q"), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	summaries := make([]ProfileSummary, 0, len(profiles))
	for _, p := range profiles {
		summaries = append(summaries, summarize(p))
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": summaries,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
