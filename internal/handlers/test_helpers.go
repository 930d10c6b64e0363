package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/BradenHooton/dashgate/internal/services"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSessionContext attaches a resolved session for the given profile
func WithSessionContext(req *http.Request, profile *models.Profile) *http.Request {
	s := auth.NewSession(profile.UserID, profile.Email, profile)
	return req.WithContext(auth.WithSession(req.Context(), s))
}

// TestProfile builds a profile with the given identity, role and status
func TestProfile(userID string, role models.Role, status models.Status) *models.Profile {
	p := models.NewDefaultProfile(userID, userID+"@example.com", nil)
	p.ID = "profile-" + userID
	p.Role = role
	p.Status = status
	p.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt
	return p
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	SignUpFunc  func(ctx context.Context, email, password, fullName string) (*services.AuthResponse, error)
	LoginFunc   func(ctx context.Context, email, password string) (*services.AuthResponse, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password, fullName string) (*services.AuthResponse, error) {
	if m.SignUpFunc == nil {
		return nil, models.ErrConflict
	}
	return m.SignUpFunc(ctx, email, password, fullName)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*services.AuthResponse, error) {
	if m.RefreshFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.RefreshFunc(ctx, refreshToken)
}

// MockProfileService implements ProfileService for testing
type MockProfileService struct {
	UpdateOwnFunc    func(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error)
	UploadAvatarFunc func(ctx context.Context, userID string, data []byte) (*models.Profile, error)
	DeleteAvatarFunc func(ctx context.Context, userID string) (*models.Profile, error)
	SearchFunc       func(ctx context.Context, query string, limit int) ([]*models.Profile, error)
}

func (m *MockProfileService) UpdateOwn(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	if m.UpdateOwnFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateOwnFunc(ctx, userID, upd)
}

func (m *MockProfileService) UploadAvatar(ctx context.Context, userID string, data []byte) (*models.Profile, error) {
	if m.UploadAvatarFunc == nil {
		return nil, models.ErrUnavailable
	}
	return m.UploadAvatarFunc(ctx, userID, data)
}

func (m *MockProfileService) DeleteAvatar(ctx context.Context, userID string) (*models.Profile, error) {
	if m.DeleteAvatarFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.DeleteAvatarFunc(ctx, userID)
}

func (m *MockProfileService) Search(ctx context.Context, query string, limit int) ([]*models.Profile, error) {
	if m.SearchFunc == nil {
		return nil, nil
	}
	return m.SearchFunc(ctx, query, limit)
}

// MockAdminService implements AdminServiceInterface for testing. Unset
// funcs return ErrNotFound, or empty results for listings.
type MockAdminService struct {
	ListUsersFunc         func(ctx context.Context, page models.Page) (*services.UserPage, error)
	SearchUsersFunc       func(ctx context.Context, query string, limit int) ([]*models.Profile, error)
	GetUserFunc           func(ctx context.Context, userID string) (*services.UserDetail, error)
	CreateUserFunc        func(ctx context.Context, actorID string, in services.CreateUserInput) (*models.Profile, error)
	UpdateUserFunc        func(ctx context.Context, actorID, userID string, upd models.AdminProfileUpdate) (*models.Profile, error)
	UpdateRoleFunc        func(ctx context.Context, actorID, userID string, role models.Role) (*models.Profile, error)
	SuspendUserFunc       func(ctx context.Context, actorID, userID string, until time.Time, reason string) (*models.Profile, error)
	UnsuspendUserFunc     func(ctx context.Context, actorID, userID string) (*models.Profile, error)
	BanUserFunc           func(ctx context.Context, actorID, userID, reason string) (*models.Profile, error)
	UnbanUserFunc         func(ctx context.Context, actorID, userID string) (*models.Profile, error)
	DeleteUserFunc        func(ctx context.Context, actorID, userID string) error
	DeleteUserProfileFunc func(ctx context.Context, actorID, userID string) error
	AdminLogsFunc         func(ctx context.Context, page models.Page) (*services.LogPage, error)
	UserStatisticsFunc    func(ctx context.Context, days int) ([]models.UserStatistics, error)
	DashboardStatsFunc    func(ctx context.Context) (*services.DashboardStats, error)
	RoleCatalogFunc       func(ctx context.Context) ([]services.RoleSummary, error)
	ExportUsersFunc       func(ctx context.Context, actorID, format string) ([]byte, string, error)
}

func (m *MockAdminService) ListUsers(ctx context.Context, page models.Page) (*services.UserPage, error) {
	if m.ListUsersFunc == nil {
		return &services.UserPage{Page: 1, Limit: 20}, nil
	}
	return m.ListUsersFunc(ctx, page)
}

func (m *MockAdminService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.Profile, error) {
	if m.SearchUsersFunc == nil {
		return nil, nil
	}
	return m.SearchUsersFunc(ctx, query, limit)
}

func (m *MockAdminService) GetUser(ctx context.Context, userID string) (*services.UserDetail, error) {
	if m.GetUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserFunc(ctx, userID)
}

func (m *MockAdminService) CreateUser(ctx context.Context, actorID string, in services.CreateUserInput) (*models.Profile, error) {
	if m.CreateUserFunc == nil {
		return nil, models.ErrConflict
	}
	return m.CreateUserFunc(ctx, actorID, in)
}

func (m *MockAdminService) UpdateUser(ctx context.Context, actorID, userID string, upd models.AdminProfileUpdate) (*models.Profile, error) {
	if m.UpdateUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateUserFunc(ctx, actorID, userID, upd)
}

func (m *MockAdminService) UpdateRole(ctx context.Context, actorID, userID string, role models.Role) (*models.Profile, error) {
	if m.UpdateRoleFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateRoleFunc(ctx, actorID, userID, role)
}

func (m *MockAdminService) SuspendUser(ctx context.Context, actorID, userID string, until time.Time, reason string) (*models.Profile, error) {
	if m.SuspendUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SuspendUserFunc(ctx, actorID, userID, until, reason)
}

func (m *MockAdminService) UnsuspendUser(ctx context.Context, actorID, userID string) (*models.Profile, error) {
	if m.UnsuspendUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UnsuspendUserFunc(ctx, actorID, userID)
}

func (m *MockAdminService) BanUser(ctx context.Context, actorID, userID, reason string) (*models.Profile, error) {
	if m.BanUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.BanUserFunc(ctx, actorID, userID, reason)
}

func (m *MockAdminService) UnbanUser(ctx context.Context, actorID, userID string) (*models.Profile, error) {
	if m.UnbanUserFunc == nil {
		return nil, models.ErrInvalidTransition
	}
	return m.UnbanUserFunc(ctx, actorID, userID)
}

func (m *MockAdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, actorID, userID)
}

func (m *MockAdminService) DeleteUserProfile(ctx context.Context, actorID, userID string) error {
	if m.DeleteUserProfileFunc == nil {
		return nil
	}
	return m.DeleteUserProfileFunc(ctx, actorID, userID)
}

func (m *MockAdminService) AdminLogs(ctx context.Context, page models.Page) (*services.LogPage, error) {
	if m.AdminLogsFunc == nil {
		return &services.LogPage{Page: 1, Limit: 20}, nil
	}
	return m.AdminLogsFunc(ctx, page)
}

func (m *MockAdminService) UserStatistics(ctx context.Context, days int) ([]models.UserStatistics, error) {
	if m.UserStatisticsFunc == nil {
		return nil, nil
	}
	return m.UserStatisticsFunc(ctx, days)
}

func (m *MockAdminService) DashboardStats(ctx context.Context) (*services.DashboardStats, error) {
	if m.DashboardStatsFunc == nil {
		return &services.DashboardStats{RoleBreakdown: map[string]int64{}}, nil
	}
	return m.DashboardStatsFunc(ctx)
}

func (m *MockAdminService) RoleCatalog(ctx context.Context) ([]services.RoleSummary, error) {
	if m.RoleCatalogFunc == nil {
		return nil, nil
	}
	return m.RoleCatalogFunc(ctx)
}

func (m *MockAdminService) ExportUsers(ctx context.Context, actorID, format string) ([]byte, string, error) {
	if m.ExportUsersFunc == nil {
		return []byte{}, "text/csv; charset=utf-8", nil
	}
	return m.ExportUsersFunc(ctx, actorID, format)
}

// MockPinger implements DBPinger for testing
type MockPinger struct {
	Err error
}

func (m *MockPinger) HealthCheck(ctx context.Context) error {
	return m.Err
}
