package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
	pkgauth "github.com/BradenHooton/dashgate/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID = "admin-1"

type adminFixture struct {
	svc      *AdminService
	profiles *MockProfileRepository
	users    *MockUserRepository
	prov     *MockProvisioner
	logs     *MockAdminLogRepository
	notifier *MockNotifier
	inv      *MockInvalidator
	stored   map[string]*models.Profile
}

// newAdminFixture backs the profile mock with an in-memory map
func newAdminFixture(profiles ...*models.Profile) *adminFixture {
	f := &adminFixture{
		users:    &MockUserRepository{},
		prov:     &MockProvisioner{},
		logs:     &MockAdminLogRepository{},
		notifier: &MockNotifier{},
		inv:      &MockInvalidator{},
		stored:   make(map[string]*models.Profile),
	}
	for _, p := range profiles {
		f.stored[p.UserID] = p
	}
	f.profiles = &MockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			p, ok := f.stored[userID]
			if !ok {
				return nil, models.ErrNotFound
			}
			cp := *p
			return &cp, nil
		},
		UpdateFunc: func(ctx context.Context, p *models.Profile) (*models.Profile, error) {
			cp := *p
			f.stored[p.UserID] = &cp
			return p, nil
		},
		DeleteFunc: func(ctx context.Context, userID string) error {
			delete(f.stored, userID)
			return nil
		},
	}

	logger := slog.Default()
	audit := NewAuditService(f.logs, logger)
	f.svc = NewAdminService(f.profiles, f.users, f.prov, f.logs, audit, f.notifier, f.inv, pkgauth.DefaultPasswordPolicy(8), logger)
	return f
}

// ── CreateUser ──

func TestAdminService_CreateUser(t *testing.T) {
	f := newAdminFixture()
	f.prov.CreateUserWithProfileFunc = func(ctx context.Context, user *models.User, profile *models.Profile) (*models.Profile, error) {
		assert.Equal(t, "new@example.com", user.Email)
		assert.True(t, user.EmailConfirmed)
		profile.UserID = "u-new"
		return profile, nil
	}

	got, err := f.svc.CreateUser(context.Background(), adminID, CreateUserInput{
		Email:    "New@Example.com",
		Password: "Str0ngPassw0rd",
		FullName: "New Person",
		Role:     models.RoleModerator,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleModerator, got.Role)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, adminID, *got.CreatedBy)
	assert.Equal(t, []string{models.AdminActionCreateUser}, f.logs.Actions())
	assert.Equal(t, "new@example.com", f.logs.Entries[0].Details["email"])
	assert.Equal(t, []string{"new@example.com"}, f.notifier.Created)
}

func TestAdminService_CreateUser_Conflict(t *testing.T) {
	f := newAdminFixture()
	f.prov.CreateUserWithProfileFunc = func(ctx context.Context, user *models.User, profile *models.Profile) (*models.Profile, error) {
		return nil, models.ErrConflict
	}

	_, err := f.svc.CreateUser(context.Background(), adminID, CreateUserInput{Email: "a@example.com", Password: "Str0ngPassw0rd"})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Empty(t, f.logs.Actions())
}

func TestAdminService_CreateUser_Validation(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.CreateUser(context.Background(), adminID, CreateUserInput{Email: "", Password: "Str0ngPassw0rd"})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = f.svc.CreateUser(context.Background(), adminID, CreateUserInput{Email: "a@example.com", Password: "Str0ngPassw0rd", Role: "owner"})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = f.svc.CreateUser(context.Background(), adminID, CreateUserInput{Email: "a@example.com", Password: "weak"})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

// ── UpdateUser ──

func TestAdminService_UpdateUser(t *testing.T) {
	f := newAdminFixture(NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive))

	got, err := f.svc.UpdateUser(context.Background(), adminID, "u1", models.AdminProfileUpdate{
		ProfileUpdate: models.ProfileUpdate{Location: strPtr("Bangkok")},
		Role:          rolePtr(models.RoleModerator),
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleModerator, got.Role)
	assert.Equal(t, "Bangkok", *got.Location)
	assert.Equal(t, adminID, *got.UpdatedBy)
	assert.Equal(t, []string{"u1"}, f.inv.IDs)

	require.Equal(t, []string{models.AdminActionUpdateUserProfile}, f.logs.Actions())
	details := f.logs.Entries[0].Details
	assert.Equal(t, []string{"location", "role"}, details["updated_fields"])
	changes := details["changes"].(models.ChangeSet)
	assert.Equal(t, models.Change{From: "user", To: "moderator"}, changes["role"])
	assert.NotContains(t, changes, "bio")
}

func TestAdminService_UpdateUser_Empty(t *testing.T) {
	f := newAdminFixture(NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive))

	_, err := f.svc.UpdateUser(context.Background(), adminID, "u1", models.AdminProfileUpdate{})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestAdminService_UpdateUser_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    *models.Profile
		upd     models.AdminProfileUpdate
		wantErr error
		check   func(t *testing.T, p *models.Profile)
	}{
		{
			name:    "banned is terminal",
			from:    NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusBanned),
			upd:     models.AdminProfileUpdate{Status: statusPtr(models.StatusActive)},
			wantErr: models.ErrInvalidTransition,
		},
		{
			name:    "active to pending",
			from:    NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive),
			upd:     models.AdminProfileUpdate{Status: statusPtr(models.StatusPending)},
			wantErr: models.ErrInvalidTransition,
		},
		{
			name:    "suspend needs the suspend operation",
			from:    NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive),
			upd:     models.AdminProfileUpdate{Status: statusPtr(models.StatusSuspended)},
			wantErr: models.ErrBadRequest,
		},
		{
			name:    "elevated role on pending account",
			from:    NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusPending),
			upd:     models.AdminProfileUpdate{Role: rolePtr(models.RoleAdmin)},
			wantErr: models.ErrInvalidTransition,
		},
		{
			name:    "ban and promote together",
			from:    NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive),
			upd:     models.AdminProfileUpdate{Status: statusPtr(models.StatusBanned), Role: rolePtr(models.RoleAdmin)},
			wantErr: models.ErrInvalidTransition,
		},
		{
			name: "ban demotes moderator",
			from: NewTestProfile("u1", "a@example.com", models.RoleModerator, models.StatusActive),
			upd:  models.AdminProfileUpdate{Status: statusPtr(models.StatusBanned)},
			check: func(t *testing.T, p *models.Profile) {
				assert.Equal(t, models.StatusBanned, p.Status)
				assert.Equal(t, models.RoleUser, p.Role)
			},
		},
		{
			name: "activate pending",
			from: NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusPending),
			upd:  models.AdminProfileUpdate{Status: statusPtr(models.StatusActive), Role: rolePtr(models.RoleAdmin)},
			check: func(t *testing.T, p *models.Profile) {
				assert.Equal(t, models.StatusActive, p.Status)
				assert.Equal(t, models.RoleAdmin, p.Role)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture(tt.from)

			got, err := f.svc.UpdateUser(context.Background(), adminID, "u1", tt.upd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.logs.Actions())
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestAdminService_UpdateUser_SelfStatusChange(t *testing.T) {
	f := newAdminFixture(NewTestProfile(adminID, "me@example.com", models.RoleAdmin, models.StatusActive))

	_, err := f.svc.UpdateUser(context.Background(), adminID, adminID, models.AdminProfileUpdate{Status: statusPtr(models.StatusBanned)})
	assert.ErrorIs(t, err, models.ErrSelfAction)

	got, err := f.svc.UpdateUser(context.Background(), adminID, adminID, models.AdminProfileUpdate{
		ProfileUpdate: models.ProfileUpdate{Bio: strPtr("me")},
	})
	require.NoError(t, err)
	assert.Equal(t, "me", *got.Bio)
}

// ── Role and status operations ──

func TestAdminService_UpdateRole(t *testing.T) {
	f := newAdminFixture(
		NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive),
		NewTestProfile("u2", "b@example.com", models.RoleUser, models.StatusSuspended),
	)

	got, err := f.svc.UpdateRole(context.Background(), adminID, "u1", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, []string{models.AdminActionUpdateUserRole}, f.logs.Actions())

	_, err = f.svc.UpdateRole(context.Background(), adminID, "u2", models.RoleModerator)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.svc.UpdateRole(context.Background(), adminID, adminID, models.RoleUser)
	assert.ErrorIs(t, err, models.ErrSelfAction)

	_, err = f.svc.UpdateRole(context.Background(), adminID, "u1", models.Role("root"))
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestAdminService_SuspendAndUnsuspend(t *testing.T) {
	f := newAdminFixture(NewTestProfile("u1", "a@example.com", models.RoleAdmin, models.StatusActive))
	until := time.Now().Add(48 * time.Hour)

	got, err := f.svc.SuspendUser(context.Background(), adminID, "u1", until, "spam")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, got.Status)
	assert.Equal(t, models.RoleUser, got.Role, "suspension demotes elevated roles")
	assert.Equal(t, "spam", *got.SuspensionReason)
	assert.WithinDuration(t, until, *got.SuspendedUntil, time.Second)
	assert.Equal(t, []string{"a@example.com"}, f.notifier.Suspend)
	assert.Equal(t, "admin", f.logs.Entries[0].Details["demoted_from"])

	// extending an existing suspension is allowed
	_, err = f.svc.SuspendUser(context.Background(), adminID, "u1", until.Add(time.Hour), "still spam")
	require.NoError(t, err)

	got, err = f.svc.UnsuspendUser(context.Background(), adminID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Nil(t, got.SuspendedUntil)
	assert.Nil(t, got.SuspensionReason)

	assert.Equal(t, []string{
		models.AdminActionSuspendUser,
		models.AdminActionSuspendUser,
		models.AdminActionUnsuspendUser,
	}, f.logs.Actions())
	assert.Len(t, f.inv.IDs, 3)
}

func TestAdminService_SuspendUser_Validation(t *testing.T) {
	f := newAdminFixture(NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive))
	ctx := context.Background()

	_, err := f.svc.SuspendUser(ctx, adminID, "u1", time.Now().Add(time.Hour), "  ")
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = f.svc.SuspendUser(ctx, adminID, "u1", time.Now().Add(-time.Hour), "late")
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = f.svc.SuspendUser(ctx, adminID, adminID, time.Now().Add(time.Hour), "me")
	assert.ErrorIs(t, err, models.ErrSelfAction)

	_, err = f.svc.UnsuspendUser(ctx, adminID, "u1")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestAdminService_BanAndUnban(t *testing.T) {
	f := newAdminFixture(NewTestProfile("u1", "a@example.com", models.RoleModerator, models.StatusSuspended))
	f.notifier.Err = errors.New("ses down")

	got, err := f.svc.BanUser(context.Background(), adminID, "u1", "fraud")
	require.NoError(t, err, "notifier failures are not returned")
	assert.Equal(t, models.StatusBanned, got.Status)
	assert.Equal(t, models.RoleUser, got.Role)

	_, err = f.svc.BanUser(context.Background(), adminID, "u1", "again")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.svc.UnbanUser(context.Background(), adminID, "u1")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.svc.UnbanUser(context.Background(), adminID, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.BanUser(context.Background(), adminID, "u1", "")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

// ── Deletion ──

func TestAdminService_DeleteUser(t *testing.T) {
	f := newAdminFixture(
		NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive),
		NewTestProfile("u2", "boss@example.com", models.RoleAdmin, models.StatusActive),
	)
	var order []string
	f.users.DeleteFunc = func(ctx context.Context, id string) error {
		order = append(order, "delete")
		return nil
	}

	require.NoError(t, f.svc.DeleteUser(context.Background(), adminID, "u1"))
	assert.Equal(t, []string{models.AdminActionDeleteUser}, f.logs.Actions())
	assert.Equal(t, []string{"delete"}, order)

	assert.ErrorIs(t, f.svc.DeleteUser(context.Background(), adminID, adminID), models.ErrSelfAction)
	assert.ErrorIs(t, f.svc.DeleteUser(context.Background(), adminID, "u2"), models.ErrProtectedAdmin)
	assert.ErrorIs(t, f.svc.DeleteUser(context.Background(), adminID, "nobody"), models.ErrNotFound)
}

func TestAdminService_DeleteUser_LogsBeforeDeleting(t *testing.T) {
	f := newAdminFixture(NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive))
	f.users.DeleteFunc = func(ctx context.Context, id string) error {
		assert.Equal(t, []string{models.AdminActionDeleteUser}, f.logs.Actions())
		return errors.New("fk violation")
	}

	assert.Error(t, f.svc.DeleteUser(context.Background(), adminID, "u1"))
}

func TestAdminService_DeleteUserProfile(t *testing.T) {
	f := newAdminFixture(
		NewTestProfile("u1", "a@example.com", models.RoleModerator, models.StatusActive),
		NewTestProfile("u2", "boss@example.com", models.RoleAdmin, models.StatusActive),
	)

	require.NoError(t, f.svc.DeleteUserProfile(context.Background(), adminID, "u1"))
	assert.NotContains(t, f.stored, "u1")
	assert.Equal(t, []string{models.AdminActionDeleteUserProfile}, f.logs.Actions())

	assert.ErrorIs(t, f.svc.DeleteUserProfile(context.Background(), adminID, "u2"), models.ErrProtectedAdmin)
}

// ── Queries ──

func TestAdminService_ListUsers_NormalizesPage(t *testing.T) {
	f := newAdminFixture()
	var got models.Page
	f.profiles.ListFunc = func(ctx context.Context, page models.Page) ([]*models.Profile, int64, error) {
		got = page
		return []*models.Profile{}, 42, nil
	}

	resp, err := f.svc.ListUsers(context.Background(), models.Page{Page: 0, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, models.Page{Page: 1, Limit: 100}, got)
	assert.Equal(t, int64(42), resp.Total)
}

func TestAdminService_GetUser(t *testing.T) {
	f := newAdminFixture(NewTestProfile("u1", "a@example.com", models.RoleUser, models.StatusActive))
	f.logs.ListByTargetFunc = func(ctx context.Context, userID string, limit int) ([]*models.AdminLog, error) {
		return nil, errors.New("log table gone")
	}

	detail, err := f.svc.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", detail.Profile.UserID)
	assert.Empty(t, detail.History)

	_, err = f.svc.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdminService_DashboardStats(t *testing.T) {
	f := newAdminFixture()
	var calls atomic.Int32
	f.profiles.CountTotalFunc = func(ctx context.Context) (int64, error) { calls.Add(1); return 10, nil }
	f.profiles.CountByStatusFunc = func(ctx context.Context, status models.Status) (int64, error) {
		calls.Add(1)
		return map[models.Status]int64{
			models.StatusActive: 7, models.StatusSuspended: 1, models.StatusBanned: 1, models.StatusPending: 1,
		}[status], nil
	}
	f.profiles.CountByRoleFunc = func(ctx context.Context, role models.Role) (int64, error) {
		calls.Add(1)
		return map[models.Role]int64{models.RoleUser: 8, models.RoleModerator: 1, models.RoleAdmin: 1}[role], nil
	}
	f.profiles.CountNewSinceFunc = func(ctx context.Context, since time.Time) (int64, error) {
		calls.Add(1)
		assert.Equal(t, 0, since.Hour())
		return 2, nil
	}

	stats, err := f.svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(9), calls.Load())
	assert.Equal(t, int64(10), stats.TotalUsers)
	assert.Equal(t, int64(7), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.BannedUsers)
	assert.Equal(t, int64(2), stats.NewUsersToday)
	assert.Equal(t, map[string]int64{"user": 8, "moderator": 1, "admin": 1}, stats.RoleBreakdown)
}

func TestAdminService_DashboardStats_Error(t *testing.T) {
	f := newAdminFixture()
	f.profiles.CountByRoleFunc = func(ctx context.Context, role models.Role) (int64, error) {
		return 0, errors.New("db down")
	}

	_, err := f.svc.DashboardStats(context.Background())
	assert.Error(t, err)
}

func TestAdminService_RoleCatalog(t *testing.T) {
	f := newAdminFixture()
	f.profiles.CountByRoleFunc = func(ctx context.Context, role models.Role) (int64, error) {
		return map[models.Role]int64{models.RoleUser: 8, models.RoleModerator: 1, models.RoleAdmin: 1}[role], nil
	}

	catalog, err := f.svc.RoleCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, len(models.AllRoles))

	for i, role := range models.AllRoles {
		assert.Equal(t, role, catalog[i].Role)
		assert.Equal(t, models.PermissionsForRole(role), catalog[i].Permissions)
	}
	assert.Equal(t, int64(8), catalog[0].UserCount)
	assert.Equal(t, int64(1), catalog[2].UserCount)
	assert.Contains(t, catalog[1].Permissions, models.PermAnalyticsView)
	assert.NotContains(t, catalog[1].Permissions, models.PermUserDelete)

	f.profiles.CountByRoleFunc = func(ctx context.Context, role models.Role) (int64, error) {
		return 0, errors.New("db down")
	}
	_, err = f.svc.RoleCatalog(context.Background())
	assert.Error(t, err)
}

func TestAdminService_UserStatistics_ClampsDays(t *testing.T) {
	f := newAdminFixture()
	var days []int
	f.profiles.DailyStatisticsFunc = func(ctx context.Context, d int) ([]models.UserStatistics, error) {
		days = append(days, d)
		return nil, nil
	}

	_, _ = f.svc.UserStatistics(context.Background(), 0)
	_, _ = f.svc.UserStatistics(context.Background(), 10_000)
	_, _ = f.svc.UserStatistics(context.Background(), 7)
	assert.Equal(t, []int{30, 365, 7}, days)
}

func TestAdminService_ExportUsers(t *testing.T) {
	f := newAdminFixture()
	p := NewTestProfile("auth-user-id", "a@example.com", models.RoleUser, models.StatusActive)
	p.ID = "profile-row-id"
	p.FullName = strPtr(`Jane "JJ" Doe`)
	p.LoginCount = 3
	f.profiles.ListAllFunc = func(ctx context.Context) ([]*models.Profile, error) {
		return []*models.Profile{p}, nil
	}

	body, contentType, err := f.svc.ExportUsers(context.Background(), adminID, "csv")
	require.NoError(t, err)
	assert.Contains(t, contentType, "text/csv")

	lines := strings.Split(strings.TrimSpace(string(body)), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"ID","Email","Full Name","Role","Status","Created At","Last Login","Login Count"`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"auth-user-id","a@example.com",`), lines[1])
	assert.NotContains(t, lines[1], "profile-row-id")
	assert.Contains(t, lines[1], `"Jane ""JJ"" Doe"`)
	assert.True(t, strings.HasSuffix(lines[1], `,"","3"`))

	body, contentType, err = f.svc.ExportUsers(context.Background(), adminID, "JSON")
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Len(t, decoded, 1)

	_, _, err = f.svc.ExportUsers(context.Background(), adminID, "xml")
	assert.ErrorIs(t, err, models.ErrBadRequest)

	assert.Equal(t, []string{models.AdminActionExportUsers, models.AdminActionExportUsers}, f.logs.Actions())
}

func TestAdminService_IsAdmin(t *testing.T) {
	f := newAdminFixture(
		NewTestProfile("a", "a@example.com", models.RoleAdmin, models.StatusActive),
		NewTestProfile("b", "b@example.com", models.RoleAdmin, models.StatusSuspended),
	)

	ok, err := f.svc.IsAdmin(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = f.svc.IsAdmin(context.Background(), "b")
	assert.False(t, ok)

	ok, err = f.svc.IsAdmin(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

// ── Audit ──

func TestAuditService_SwallowsInsertFailure(t *testing.T) {
	repo := &MockAdminLogRepository{CreateErr: errors.New("insert failed")}
	svc := NewAuditService(repo, slog.Default())

	assert.NotPanics(t, func() {
		svc.LogAdminAction(context.Background(), adminID, models.AdminActionBanUser, "u1", nil)
	})
}

func TestAuditService_RecordsRequestMeta(t *testing.T) {
	repo := &MockAdminLogRepository{}
	svc := NewAuditService(repo, slog.Default())
	ctx := WithRequestMeta(context.Background(), models.RequestMeta{IPAddress: "10.0.0.1", UserAgent: "curl/8"})

	svc.LogAdminAction(ctx, adminID, models.AdminActionExportUsers, "", models.AdminDetails{"format": "csv"})

	require.Len(t, repo.Entries, 1)
	e := repo.Entries[0]
	assert.Nil(t, e.TargetUserID)
	assert.Equal(t, "10.0.0.1", *e.IPAddress)
	assert.Equal(t, "curl/8", *e.UserAgent)
}

func rolePtr(r models.Role) *models.Role       { return &r }
func statusPtr(s models.Status) *models.Status { return &s }
