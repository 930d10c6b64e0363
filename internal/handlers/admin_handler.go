package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/BradenHooton/dashgate/internal/services"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
	"github.com/go-chi/chi/v5"
)

// AdminServiceInterface defines the administrative operations contract
type AdminServiceInterface interface {
	ListUsers(ctx context.Context, page models.Page) (*services.UserPage, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.Profile, error)
	GetUser(ctx context.Context, userID string) (*services.UserDetail, error)
	CreateUser(ctx context.Context, actorID string, in services.CreateUserInput) (*models.Profile, error)
	UpdateUser(ctx context.Context, actorID, userID string, upd models.AdminProfileUpdate) (*models.Profile, error)
	UpdateRole(ctx context.Context, actorID, userID string, role models.Role) (*models.Profile, error)
	SuspendUser(ctx context.Context, actorID, userID string, until time.Time, reason string) (*models.Profile, error)
	UnsuspendUser(ctx context.Context, actorID, userID string) (*models.Profile, error)
	BanUser(ctx context.Context, actorID, userID, reason string) (*models.Profile, error)
	UnbanUser(ctx context.Context, actorID, userID string) (*models.Profile, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
	DeleteUserProfile(ctx context.Context, actorID, userID string) error
	AdminLogs(ctx context.Context, page models.Page) (*services.LogPage, error)
	UserStatistics(ctx context.Context, days int) ([]models.UserStatistics, error)
	DashboardStats(ctx context.Context) (*services.DashboardStats, error)
	RoleCatalog(ctx context.Context) ([]services.RoleSummary, error)
	ExportUsers(ctx context.Context, actorID, format string) ([]byte, string, error)
}

// AdminHandler handles admin dashboard HTTP requests
type AdminHandler struct {
	service AdminServiceInterface
	logger  *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminServiceInterface, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

// Request DTOs

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// AdminUpdateUserRequest is the whitelisted field set an admin may change
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role   *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	Status *string `json:"status" validate:"omitempty,oneof=active suspended banned pending"`
}

// UpdateRoleRequest represents the request body for a role change
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// SuspendRequest represents the request body for a suspension
type SuspendRequest struct {
	Until  time.Time `json:"until" validate:"required"`
	Reason string    `json:"reason" validate:"required,max=500"`
}

// BanRequest represents the request body for a ban
type BanRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func pageFromQuery(r *http.Request) models.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.Page{Page: page, Limit: limit}
}

// actorAndTarget returns the acting admin and the {id} path parameter
func actorAndTarget(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return "", "", false
	}
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "user id is required")
		return "", "", false
	}
	return s.UserID, userID, true
}

// ListUsers handles GET /admin/users?page=&limit=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListUsers(r.Context(), pageFromQuery(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	page.Users = nonNil(page.Users)
	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// SearchUsers handles GET /admin/users/search?q=&limit=
func (h *AdminHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	users, err := h.service.SearchUsers(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": nonNil(users)})
}

// GetUser handles GET /admin/users/{id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	detail, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, detail)
}

// CreateUser handles POST /admin/users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	profile, err := h.service.CreateUser(r.Context(), s.UserID, services.CreateUserInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, profile)
}

// UpdateUser handles PUT /admin/users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actorID, userID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	var req AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	personal, err := req.toUpdate()
	if err != nil {
		pkghttp.WriteBadRequest(w, "validation failed: "+err.Error())
		return
	}
	upd := models.AdminProfileUpdate{ProfileUpdate: personal}
	if req.Role != nil {
		role := models.Role(*req.Role)
		upd.Role = &role
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		upd.Status = &status
	}

	profile, err := h.service.UpdateUser(r.Context(), actorID, userID, upd)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// UpdateRole handles PUT /admin/users/{id}/role
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actorID, userID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateRole(r.Context(), actorID, userID, models.Role(req.Role))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// SuspendUser handles POST /admin/users/{id}/suspend
func (h *AdminHandler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	actorID, userID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	var req SuspendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.SuspendUser(r.Context(), actorID, userID, req.Until, req.Reason)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// UnsuspendUser handles POST /admin/users/{id}/unsuspend
func (h *AdminHandler) UnsuspendUser(w http.ResponseWriter, r *http.Request) {
	actorID, userID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	profile, err := h.service.UnsuspendUser(r.Context(), actorID, userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// BanUser handles POST /admin/users/{id}/ban
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	actorID, userID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	var req BanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.BanUser(r.Context(), actorID, userID, req.Reason)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// UnbanUser handles POST /admin/users/{id}/unban. Bans are final, so this
// answers 404 or 409.
func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	actorID, userID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	profile, err := h.service.UnbanUser(r.Context(), actorID, userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// DeleteUser handles DELETE /admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, userID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), actorID, userID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUserProfile handles DELETE /admin/users/{id}/profile
func (h *AdminHandler) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	actorID, userID, ok := actorAndTarget(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUserProfile(r.Context(), actorID, userID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminLogs handles GET /admin/logs?page=&limit=
func (h *AdminHandler) AdminLogs(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.AdminLogs(r.Context(), pageFromQuery(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	page.Logs = nonNil(page.Logs)
	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// GetDashboardStats handles GET /admin/stats
func (h *AdminHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, stats)
}

// Roles handles GET /admin/roles
func (h *AdminHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.RoleCatalog(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"roles": nonNil(roles)})
}

// UserStatistics handles GET /admin/statistics?days=N
func (h *AdminHandler) UserStatistics(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	stats, err := h.service.UserStatistics(r.Context(), days)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"statistics": nonNil(stats)})
}

// ExportUsers handles GET /admin/export?format=csv|json
func (h *AdminHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = services.ExportCSV
	}

	body, contentType, err := h.service.ExportUsers(r.Context(), s.UserID, format)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("users-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
