package access

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(role models.Role, status models.Status) *auth.Session {
	return auth.NewSession("u1", "u1@example.com", &models.Profile{UserID: "u1", Role: role, Status: status})
}

func TestMatch_LongestPrefixWins(t *testing.T) {
	table := Default()

	tests := []struct {
		path       string
		wantPrefix string
		wantOK     bool
	}{
		{"/admin", "/admin", true},
		{"/admin/", "/admin", true},
		{"/admin/users", "/admin/users", true},
		{"/admin/users/42/edit", "/admin/users", true},
		{"/admin/settings", "/admin/settings", true},
		{"/administrator", "", false},
		{"/moderation/reports/9", "/moderation/reports", true},
		{"/dashboard/analytics", "/dashboard/analytics", true},
		{"/dashboard", "", false},
		{"/profile", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rule, ok := table.Match(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPrefix, rule.Prefix)
		})
	}
}

func TestMatch_ChildPermissionsApply(t *testing.T) {
	rule, ok := Default().Match("/admin/settings/smtp")
	require.True(t, ok)
	assert.Equal(t, []models.Permission{models.PermSystemManage}, rule.Permissions)
}

func TestRequiresAuth(t *testing.T) {
	table := Default()

	assert.False(t, table.RequiresAuth("/login"))
	assert.False(t, table.RequiresAuth("/reset-password/abc"))
	assert.True(t, table.RequiresAuth("/loginx"))
	assert.True(t, table.RequiresAuth("/dashboard"))
}

func TestRequiresRole(t *testing.T) {
	table := Default()

	assert.Equal(t, []models.Role{models.RoleAdmin}, table.RequiresRole("/admin/logs"))
	assert.Equal(t, []models.Role{models.RoleAdmin, models.RoleModerator}, table.RequiresRole("/moderation"))
	assert.Nil(t, table.RequiresRole("/profile"))
}

func TestCheck(t *testing.T) {
	table := Default()

	tests := []struct {
		name     string
		session  *auth.Session
		path     string
		allowed  bool
		reason   string
		redirect string
	}{
		{"public page without session", nil, "/login", true, auth.ReasonAllowed, ""},
		{"private page without session", nil, "/admin", false, auth.ReasonUnauthenticated, "/login?redirectTo=%2Fadmin"},
		{"unlisted page for any user", session(models.RoleUser, models.StatusActive), "/dashboard", true, auth.ReasonAllowed, ""},
		{"admin opens settings", session(models.RoleAdmin, models.StatusActive), "/admin/settings", true, auth.ReasonAllowed, ""},
		{"moderator opens admin", session(models.RoleModerator, models.StatusActive), "/admin", false, auth.ReasonInsufficientRole, RedirectUnauthorized},
		{"moderator opens analytics", session(models.RoleModerator, models.StatusActive), "/dashboard/analytics", true, auth.ReasonAllowed, ""},
		{"user opens reports", session(models.RoleUser, models.StatusActive), "/dashboard/reports", false, auth.ReasonInsufficientRole, RedirectUnauthorized},
		{"suspended admin", session(models.RoleAdmin, models.StatusSuspended), "/admin", false, auth.ReasonAccountSuspended, RedirectSuspended},
		{"banned moderator", session(models.RoleModerator, models.StatusBanned), "/moderation", false, auth.ReasonAccountBanned, RedirectSuspended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := table.Check(tt.session, tt.path)
			assert.Equal(t, tt.allowed, res.Allowed)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, tt.redirect, res.Redirect)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown role":       "routes:\n  - prefix: /x\n    roles: [root]\n",
		"unknown permission": "routes:\n  - prefix: /x\n    permissions: [everything]\n",
		"duplicate prefix":   "routes:\n  - prefix: /x\n  - prefix: /x/\n",
		"bad yaml":           "routes: [",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "routes.yaml")
	doc := "public: [/welcome]\nroutes:\n  - prefix: billing\n    roles: [admin]\n"
	require.NoError(t, os.WriteFile(filename, []byte(doc), 0o600))

	table, err := Load(filename)
	require.NoError(t, err)

	assert.False(t, table.RequiresAuth("/welcome"))
	assert.Equal(t, []models.Role{models.RoleAdmin}, table.RequiresRole("/billing/invoices"))
	assert.Len(t, table.Rules(), 1)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
