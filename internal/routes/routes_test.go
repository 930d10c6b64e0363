package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/dashgate/internal/access"
	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/cache"
	"github.com/BradenHooton/dashgate/internal/handlers"
	"github.com/BradenHooton/dashgate/internal/middleware"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/BradenHooton/dashgate/internal/navigation"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokens accepts "token-<userID>" as an access token for userID
type fakeTokens struct{}

func (fakeTokens) ValidateToken(ctx context.Context, token string) (*models.TokenClaims, error) {
	userID, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return nil, models.ErrUnauthorized
	}
	return &models.TokenClaims{
		Type:   models.TokenTypeAccess,
		UserID: userID,
		Email:  userID + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}, nil
}

type fakeLoader map[string]*models.Profile

func (f fakeLoader) GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error) {
	p, ok := f[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type testServer struct {
	handler http.Handler
	metrics *middleware.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	loader := fakeLoader{
		"admin":     handlers.TestProfile("admin", models.RoleAdmin, models.StatusActive),
		"mod":       handlers.TestProfile("mod", models.RoleModerator, models.StatusActive),
		"user":      handlers.TestProfile("user", models.RoleUser, models.StatusActive),
		"suspended": handlers.TestProfile("suspended", models.RoleUser, models.StatusSuspended),
	}

	menu, err := navigation.Load("")
	require.NoError(t, err)

	metrics := middleware.NewMetrics(prometheus.NewRegistry())
	deps := Dependencies{
		Logger:   logger,
		Metrics:  metrics,
		Tokens:   fakeTokens{},
		Resolver: auth.NewSessionResolver(loader, cache.NewMemoryCache(100, time.Minute), logger),
		Guard:    auth.NewGuard(metrics, nil),
		Health:   handlers.NewHealthHandler(&handlers.MockPinger{}, logger),
		Auth:     handlers.NewAuthHandler(&handlers.MockAuthService{}, logger),
		Profile:  handlers.NewProfileHandler(&handlers.MockProfileService{}, 1<<20, logger),
		Access:   handlers.NewAccessHandler(access.Default(), menu),
		Admin:    handlers.NewAdminHandler(&handlers.MockAdminService{}, logger),
	}

	return &testServer{
		handler: NewRouter(Config{Env: "development", AuthRateLimit: 3}, deps),
		metrics: metrics,
	}
}

func (s *testServer) do(method, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer token-"+userID)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func errorDetails(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Details
}

func TestRouter_PublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodHead, "/health", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/db", "").Code)

	w := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRouter_UnknownRouteIsJSON404(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"not_found"`)
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/me", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/me", "ghost").Code, "token for a deleted user")
}

func TestRouter_GuardMatrix(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method, path, user string
		want               int
		reason             string
	}{
		{http.MethodGet, "/api/v1/me", "user", http.StatusOK, ""},
		{http.MethodGet, "/api/v1/me", "suspended", http.StatusOK, ""},
		{http.MethodGet, "/api/v1/admin/users", "admin", http.StatusOK, ""},
		{http.MethodGet, "/api/v1/admin/users", "mod", http.StatusForbidden, auth.ReasonInsufficientRole},
		{http.MethodGet, "/api/v1/admin/users", "user", http.StatusForbidden, auth.ReasonInsufficientRole},
		{http.MethodGet, "/api/v1/admin/users", "suspended", http.StatusForbidden, auth.ReasonAccountSuspended},
		{http.MethodGet, "/api/v1/admin/stats", "mod", http.StatusOK, ""},
		{http.MethodGet, "/api/v1/admin/statistics", "user", http.StatusForbidden, auth.ReasonInsufficientRole},
		{http.MethodGet, "/api/v1/admin/logs", "mod", http.StatusForbidden, auth.ReasonInsufficientRole},
		{http.MethodGet, "/api/v1/admin/roles", "admin", http.StatusOK, ""},
		{http.MethodGet, "/api/v1/admin/roles", "mod", http.StatusForbidden, auth.ReasonInsufficientRole},
		{http.MethodDelete, "/api/v1/admin/users/user", "admin", http.StatusNoContent, ""},
		{http.MethodPost, "/api/v1/admin/users/user/unban", "mod", http.StatusForbidden, auth.ReasonInsufficientRole},
		{http.MethodGet, "/api/v1/profiles/search?q=ad", "suspended", http.StatusForbidden, auth.ReasonAccountSuspended},
		{http.MethodGet, "/api/v1/profiles/search?q=ad", "user", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.user+" "+tt.method+" "+tt.path, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.user)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.reason != "" {
				assert.Equal(t, tt.reason, errorDetails(t, w))
			}
		})
	}
}

// Admins hold user.update instead of profile.update and must still reach
// their own profile.
func TestRouter_SelfEditAcceptsEitherPermission(t *testing.T) {
	s := newTestServer(t)

	for _, user := range []string{"admin", "user"} {
		w := s.do(http.MethodDelete, "/api/v1/me/avatar", user)
		assert.NotEqual(t, http.StatusForbidden, w.Code, user)
	}
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/v1/me/avatar", "suspended").Code)
}

func TestRouter_AuthRoutesAreRateLimited(t *testing.T) {
	s := newTestServer(t)

	var last int
	for i := 0; i < 4; i++ {
		last = s.do(http.MethodPost, "/api/v1/auth/login", "").Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRouter_RecordsGuardDecisions(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodGet, "/api/v1/admin/users", "user")
	s.do(http.MethodGet, "/api/v1/admin/users", "admin")

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.GuardDecisionsTotal.WithLabelValues("denied", auth.ReasonInsufficientRole)))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.GuardDecisionsTotal.WithLabelValues("allowed", auth.ReasonAllowed)))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/admin/users", "403")))
}
