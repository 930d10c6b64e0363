package handlers

import (
	"net/http"

	"github.com/BradenHooton/dashgate/internal/access"
	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/BradenHooton/dashgate/internal/navigation"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
)

// AccessHandler answers what the current session may see and do
type AccessHandler struct {
	table *access.Table
	menu  *navigation.Menu
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(table *access.Table, menu *navigation.Menu) *AccessHandler {
	return &AccessHandler{table: table, menu: menu}
}

// MeResponse is the session summary returned by GET /me
type MeResponse struct {
	UserID      string              `json:"user_id"`
	Email       string              `json:"email"`
	Profile     *models.Profile     `json:"profile"`
	Permissions []models.Permission `json:"permissions"`
	IsAdmin     bool                `json:"is_admin"`
}

// PermissionsResponse is returned by GET /me/permissions
type PermissionsResponse struct {
	Role        models.Role         `json:"role"`
	Status      models.Status       `json:"status"`
	Permissions []models.Permission `json:"permissions"`
	IsAdmin     bool                `json:"is_admin"`
	IsModerator bool                `json:"is_moderator"`
}

// AccessCheckRequest names the page the client wants to open
type AccessCheckRequest struct {
	Path string `json:"path" validate:"required,startswith=/,max=2048"`
}

// Me handles GET /me
func (h *AccessHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MeResponse{
		UserID:      s.UserID,
		Email:       s.Email,
		Profile:     s.Profile,
		Permissions: nonNil(s.Permissions),
		IsAdmin:     s.IsAdmin,
	})
}

// Permissions handles GET /me/permissions
func (h *AccessHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, PermissionsResponse{
		Role:        s.Role(),
		Status:      s.Profile.Status,
		Permissions: nonNil(s.Permissions),
		IsAdmin:     s.IsAdmin,
		IsModerator: s.Profile.IsActive() && models.IsModeratorRole(s.Role()),
	})
}

// Menu handles GET /me/menu
func (h *AccessHandler) Menu(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": nonNil(h.menu.For(s.Role(), s.Permissions)),
	})
}

// Check handles POST /access/check
func (h *AccessHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req AccessCheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, _ := auth.SessionFromContext(r.Context())
	pkghttp.WriteJSON(w, http.StatusOK, h.table.Check(s, req.Path))
}
