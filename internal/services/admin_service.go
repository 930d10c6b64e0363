package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
	pkgauth "github.com/BradenHooton/dashgate/pkg/auth"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageLimit  = 20
	maxPageLimit      = 100
	defaultStatsDays  = 30
	maxStatsDays      = 365
	targetHistorySize = 10
)

// Export formats
const (
	ExportCSV  = "csv"
	ExportJSON = "json"
)

// AdminProfileRepository is the profile storage used by admin operations
type AdminProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) (*models.Profile, error)
	List(ctx context.Context, page models.Page) ([]*models.Profile, int64, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
	Search(ctx context.Context, term string, limit int, activeOnly bool) ([]*models.Profile, error)
	Delete(ctx context.Context, userID string) error
	CountTotal(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.Status) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	CountNewSince(ctx context.Context, since time.Time) (int64, error)
	DailyStatistics(ctx context.Context, days int) ([]models.UserStatistics, error)
}

// AdminUserRepository deletes auth identities
type AdminUserRepository interface {
	Delete(ctx context.Context, id string) error
}

// UserProvisioner creates a user and its profile atomically
type UserProvisioner interface {
	CreateUserWithProfile(ctx context.Context, user *models.User, profile *models.Profile) (*models.Profile, error)
}

// AdminLogReader reads the admin log
type AdminLogReader interface {
	List(ctx context.Context, page models.Page) ([]*models.AdminLog, int64, error)
	ListByTarget(ctx context.Context, userID string, limit int) ([]*models.AdminLog, error)
}

// AdminActionLogger appends admin log entries without failing the caller
type AdminActionLogger interface {
	LogAdminAction(ctx context.Context, adminID, action, targetUserID string, details models.AdminDetails)
}

// UserPage is one page of profiles
type UserPage struct {
	Users []*models.Profile `json:"users"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// LogPage is one page of admin log entries
type LogPage struct {
	Logs  []*models.AdminLog `json:"logs"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// UserDetail is a profile plus the latest admin actions taken on it
type UserDetail struct {
	Profile *models.Profile    `json:"profile"`
	History []*models.AdminLog `json:"history"`
}

// DashboardStats contains aggregate admin metrics
type DashboardStats struct {
	TotalUsers     int64            `json:"total_users"`
	ActiveUsers    int64            `json:"active_users"`
	SuspendedUsers int64            `json:"suspended_users"`
	BannedUsers    int64            `json:"banned_users"`
	PendingUsers   int64            `json:"pending_users"`
	NewUsersToday  int64            `json:"new_users_today"`
	RoleBreakdown  map[string]int64 `json:"role_breakdown"`
}

// RoleSummary describes one role: what it grants and how many accounts hold it
type RoleSummary struct {
	Role        models.Role         `json:"role"`
	Permissions []models.Permission `json:"permissions"`
	UserCount   int64               `json:"user_count"`
}

// CreateUserInput is what an admin supplies to create an account
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Role     models.Role
}

// AdminService implements the administrative operations on other users
type AdminService struct {
	profiles    AdminProfileRepository
	users       AdminUserRepository
	provisioner UserProvisioner
	logs        AdminLogReader
	audit       AdminActionLogger
	notifier    Notifier
	invalidator SessionInvalidator
	policy      pkgauth.PasswordPolicy
	logger      *slog.Logger
	now         func() time.Time
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	profiles AdminProfileRepository,
	users AdminUserRepository,
	provisioner UserProvisioner,
	logs AdminLogReader,
	audit AdminActionLogger,
	notifier Notifier,
	invalidator SessionInvalidator,
	policy pkgauth.PasswordPolicy,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		profiles:    profiles,
		users:       users,
		provisioner: provisioner,
		logs:        logs,
		audit:       audit,
		notifier:    notifier,
		invalidator: invalidator,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *AdminService) invalidate(ctx context.Context, userID string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
}

func (s *AdminService) notify(action, userID string, err error) {
	if err != nil {
		s.logger.Warn("failed to send account notice",
			slog.String("action", action),
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// ListUsers returns profiles newest first
func (s *AdminService) ListUsers(ctx context.Context, page models.Page) (*UserPage, error) {
	page = page.Normalize(defaultPageLimit, maxPageLimit)

	users, total, err := s.profiles.List(ctx, page)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, err
	}

	return &UserPage{Users: users, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// SearchUsers matches name or email across every status
func (s *AdminService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", models.ErrBadRequest)
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return s.profiles.Search(ctx, query, limit, false)
}

// GetUser returns the profile and its recent admin history
func (s *AdminService) GetUser(ctx context.Context, userID string) (*UserDetail, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.logs.ListByTarget(ctx, userID, targetHistorySize)
	if err != nil {
		s.logger.Warn("failed to load admin history", slog.String("user_id", userID), slog.Any("error", err))
		history = []*models.AdminLog{}
	}

	return &UserDetail{Profile: profile, History: history}, nil
}

// CreateUser creates an account and its profile in one transaction
func (s *AdminService) CreateUser(ctx context.Context, actorID string, in CreateUserInput) (*models.Profile, error) {
	email := normalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	if email == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrBadRequest)
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrBadRequest, role)
	}
	if err := s.policy.Validate(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	now := s.now()
	user := &models.User{
		Email:             email,
		PasswordHash:      hash,
		EmailConfirmed:    true,
		PasswordChangedAt: &now,
	}
	var namePtr *string
	if fullName != "" {
		namePtr = &fullName
		user.FullName = namePtr
	}

	profile := models.NewDefaultProfile("", email, namePtr)
	profile.Role = role
	profile.CreatedBy = &actorID

	created, err := s.provisioner.CreateUserWithProfile(ctx, user, profile)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", models.ErrConflict)
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, err
	}

	s.audit.LogAdminAction(ctx, actorID, models.AdminActionCreateUser, created.UserID, models.AdminDetails{
		"email":     email,
		"role":      string(role),
		"full_name": fullName,
	})
	s.notify(models.AdminActionCreateUser, created.UserID, s.notifier.AccountCreated(ctx, email, fullName))

	return created, nil
}

// applyStatus moves p to status, enforcing the transition table. Leaving
// active demotes an elevated role in the same write.
func applyStatus(p *models.Profile, to models.Status, until *time.Time, reason string, now time.Time) error {
	if err := models.ValidateTransition(p.Status, to); err != nil {
		return err
	}

	switch to {
	case models.StatusActive:
		p.SuspendedUntil = nil
		p.SuspensionReason = nil
	case models.StatusSuspended:
		if strings.TrimSpace(reason) == "" {
			return fmt.Errorf("%w: suspension reason is required", models.ErrBadRequest)
		}
		if until == nil || !until.After(now) {
			return fmt.Errorf("%w: suspended_until must be in the future", models.ErrBadRequest)
		}
		u := until.UTC()
		r := strings.TrimSpace(reason)
		p.SuspendedUntil = &u
		p.SuspensionReason = &r
	case models.StatusBanned:
		p.SuspendedUntil = nil
		if r := strings.TrimSpace(reason); r != "" {
			p.SuspensionReason = &r
		}
	}

	p.Status = to
	if to != models.StatusActive && p.Role.Elevated() {
		p.Role = models.RoleUser
	}
	return nil
}

// UpdateUser applies whitelisted field changes to another user's profile
func (s *AdminService) UpdateUser(ctx context.Context, actorID, userID string, upd models.AdminProfileUpdate) (*models.Profile, error) {
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrBadRequest)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	before := *profile

	if err := upd.ProfileUpdate.Apply(profile); err != nil {
		return nil, err
	}

	if upd.Status != nil && *upd.Status != profile.Status {
		if actorID == userID {
			return nil, models.ErrSelfAction
		}
		if *upd.Status == models.StatusSuspended {
			return nil, fmt.Errorf("%w: use the suspend operation to suspend a user", models.ErrBadRequest)
		}
		if err := applyStatus(profile, *upd.Status, nil, "", s.now()); err != nil {
			return nil, err
		}
	}
	if upd.Role != nil && *upd.Role != profile.Role {
		if !upd.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", models.ErrBadRequest, *upd.Role)
		}
		if actorID == userID {
			return nil, models.ErrSelfAction
		}
		if err := models.ValidateRoleForStatus(*upd.Role, profile.Status); err != nil {
			return nil, err
		}
		profile.Role = *upd.Role
	}
	profile.UpdatedBy = &actorID

	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		s.logger.Error("failed to update user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, err
	}
	s.invalidate(ctx, userID)

	s.audit.LogAdminAction(ctx, actorID, models.AdminActionUpdateUserProfile, userID, models.AdminDetails{
		"target_email":   updated.Email,
		"updated_fields": upd.UpdatedFields(),
		"changes":        diffProfiles(&before, updated),
	})

	return updated, nil
}

// UpdateRole changes only the role
func (s *AdminService) UpdateRole(ctx context.Context, actorID, userID string, role models.Role) (*models.Profile, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrBadRequest, role)
	}
	if actorID == userID {
		return nil, models.ErrSelfAction
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateRoleForStatus(role, profile.Status); err != nil {
		return nil, err
	}

	oldRole := profile.Role
	profile.Role = role
	profile.UpdatedBy = &actorID

	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	s.audit.LogAdminAction(ctx, actorID, models.AdminActionUpdateUserRole, userID, models.AdminDetails{
		"target_email": updated.Email,
		"old_role":     string(oldRole),
		"new_role":     string(role),
	})
	return updated, nil
}

// SuspendUser suspends until the given time. An already suspended user has
// the suspension extended.
func (s *AdminService) SuspendUser(ctx context.Context, actorID, userID string, until time.Time, reason string) (*models.Profile, error) {
	if actorID == userID {
		return nil, models.ErrSelfAction
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldRole := profile.Role

	if err := applyStatus(profile, models.StatusSuspended, &until, reason, s.now()); err != nil {
		return nil, err
	}
	profile.UpdatedBy = &actorID

	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	details := models.AdminDetails{
		"target_email":    updated.Email,
		"suspended_until": until.UTC().Format(time.RFC3339),
		"reason":          strings.TrimSpace(reason),
	}
	if oldRole != updated.Role {
		details["demoted_from"] = string(oldRole)
	}
	s.audit.LogAdminAction(ctx, actorID, models.AdminActionSuspendUser, userID, details)
	s.notify(models.AdminActionSuspendUser, userID, s.notifier.AccountSuspended(ctx, updated.Email, until, strings.TrimSpace(reason)))

	return updated, nil
}

// UnsuspendUser reactivates a suspended user
func (s *AdminService) UnsuspendUser(ctx context.Context, actorID, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Status != models.StatusSuspended {
		return nil, fmt.Errorf("%w: user is %s, not suspended", models.ErrInvalidTransition, profile.Status)
	}

	if err := applyStatus(profile, models.StatusActive, nil, "", s.now()); err != nil {
		return nil, err
	}
	profile.UpdatedBy = &actorID

	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	s.audit.LogAdminAction(ctx, actorID, models.AdminActionUnsuspendUser, userID, models.AdminDetails{
		"target_email": updated.Email,
	})
	return updated, nil
}

// BanUser bans permanently
func (s *AdminService) BanUser(ctx context.Context, actorID, userID, reason string) (*models.Profile, error) {
	if actorID == userID {
		return nil, models.ErrSelfAction
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: ban reason is required", models.ErrBadRequest)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldRole := profile.Role

	if err := applyStatus(profile, models.StatusBanned, nil, reason, s.now()); err != nil {
		return nil, err
	}
	profile.UpdatedBy = &actorID

	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	details := models.AdminDetails{
		"target_email": updated.Email,
		"reason":       strings.TrimSpace(reason),
	}
	if oldRole != updated.Role {
		details["demoted_from"] = string(oldRole)
	}
	s.audit.LogAdminAction(ctx, actorID, models.AdminActionBanUser, userID, details)
	s.notify(models.AdminActionBanUser, userID, s.notifier.AccountBanned(ctx, updated.Email, strings.TrimSpace(reason)))

	return updated, nil
}

// UnbanUser always fails: banned is terminal
func (s *AdminService) UnbanUser(ctx context.Context, actorID, userID string) (*models.Profile, error) {
	if _, err := s.profiles.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: banned accounts cannot be reinstated", models.ErrInvalidTransition)
}

func (s *AdminService) deletable(ctx context.Context, actorID, userID string) (*models.Profile, error) {
	if actorID == userID {
		return nil, models.ErrSelfAction
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Role == models.RoleAdmin {
		return nil, models.ErrProtectedAdmin
	}
	return profile, nil
}

// DeleteUser removes the account. The log entry is written first so it
// survives even if the delete is only partially observed.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	profile, err := s.deletable(ctx, actorID, userID)
	if err != nil {
		return err
	}

	s.audit.LogAdminAction(ctx, actorID, models.AdminActionDeleteUser, userID, models.AdminDetails{
		"target_email": profile.Email,
		"role":         string(profile.Role),
		"status":       string(profile.Status),
	})

	if err := s.users.Delete(ctx, userID); err != nil {
		s.logger.Error("failed to delete user", slog.String("user_id", userID), slog.Any("error", err))
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// DeleteUserProfile removes only the profile. It is recreated with
// defaults on the user's next sign-in.
func (s *AdminService) DeleteUserProfile(ctx context.Context, actorID, userID string) error {
	profile, err := s.deletable(ctx, actorID, userID)
	if err != nil {
		return err
	}

	if err := s.profiles.Delete(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)

	s.audit.LogAdminAction(ctx, actorID, models.AdminActionDeleteUserProfile, userID, models.AdminDetails{
		"target_email": profile.Email,
	})
	return nil
}

// AdminLogs returns log entries newest first
func (s *AdminService) AdminLogs(ctx context.Context, page models.Page) (*LogPage, error) {
	page = page.Normalize(defaultPageLimit, maxPageLimit)

	logs, total, err := s.logs.List(ctx, page)
	if err != nil {
		s.logger.Error("failed to list admin logs", slog.Any("error", err))
		return nil, err
	}
	return &LogPage{Logs: logs, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// UserStatistics returns per-day counts for the last days days
func (s *AdminService) UserStatistics(ctx context.Context, days int) ([]models.UserStatistics, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	return s.profiles.DailyStatistics(ctx, days)
}

// DashboardStats runs the aggregate counts concurrently
func (s *AdminService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{RoleBreakdown: make(map[string]int64, len(models.AllRoles))}
	roleCounts := make([]int64, len(models.AllRoles))
	today := s.now().UTC().Truncate(24 * time.Hour)

	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	byStatus := func(st models.Status) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.profiles.CountByStatus(ctx, st) }
	}

	count(&stats.TotalUsers, s.profiles.CountTotal)
	count(&stats.ActiveUsers, byStatus(models.StatusActive))
	count(&stats.SuspendedUsers, byStatus(models.StatusSuspended))
	count(&stats.BannedUsers, byStatus(models.StatusBanned))
	count(&stats.PendingUsers, byStatus(models.StatusPending))
	count(&stats.NewUsersToday, func(ctx context.Context) (int64, error) {
		return s.profiles.CountNewSince(ctx, today)
	})
	for i, role := range models.AllRoles {
		role := role // per-iteration copy; the closure runs concurrently
		count(&roleCounts[i], func(ctx context.Context) (int64, error) {
			return s.profiles.CountByRole(ctx, role)
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard: failed to count users", slog.Any("error", err))
		return nil, err
	}

	for i, role := range models.AllRoles {
		stats.RoleBreakdown[string(role)] = roleCounts[i]
	}
	return stats, nil
}

// RoleCatalog lists every role with its permissions and holder count,
// lowest privilege first.
func (s *AdminService) RoleCatalog(ctx context.Context) ([]RoleSummary, error) {
	catalog := make([]RoleSummary, len(models.AllRoles))

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range models.AllRoles {
		i, role := i, role // per-iteration copies; the goroutine outlives the iteration
		catalog[i] = RoleSummary{Role: role, Permissions: models.PermissionsForRole(role)}
		g.Go(func() error {
			n, err := s.profiles.CountByRole(gctx, role)
			if err != nil {
				return err
			}
			catalog[i].UserCount = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to count users per role", slog.Any("error", err))
		return nil, err
	}
	return catalog, nil
}

// ExportUsers renders every profile as CSV or JSON and returns the body
// with its content type.
func (s *AdminService) ExportUsers(ctx context.Context, actorID, format string) ([]byte, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportCSV
	}
	if format != ExportCSV && format != ExportJSON {
		return nil, "", fmt.Errorf("%w: unsupported export format %q", models.ErrBadRequest, format)
	}

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load users for export", slog.Any("error", err))
		return nil, "", err
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case ExportJSON:
		body, err = json.Marshal(profiles)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode export: %w", err)
		}
		contentType = "application/json"
	default:
		body = exportCSV(profiles)
		contentType = "text/csv; charset=utf-8"
	}

	s.audit.LogAdminAction(ctx, actorID, models.AdminActionExportUsers, "", models.AdminDetails{
		"format": format,
		"count":  len(profiles),
	})
	return body, contentType, nil
}

var exportHeader = []string{"ID", "Email", "Full Name", "Role", "Status", "Created At", "Last Login", "Login Count"}

// exportCSV quotes every field, which encoding/csv only does when needed.
func exportCSV(profiles []*models.Profile) []byte {
	var buf bytes.Buffer
	writeRow := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteString("\r\n")
	}

	writeRow(exportHeader)
	for _, p := range profiles {
		fullName, lastLogin := "", ""
		if p.FullName != nil {
			fullName = *p.FullName
		}
		if p.LastLoginAt != nil {
			lastLogin = p.LastLoginAt.UTC().Format(time.RFC3339)
		}
		writeRow([]string{
			p.UserID,
			p.Email,
			fullName,
			string(p.Role),
			string(p.Status),
			p.CreatedAt.UTC().Format(time.RFC3339),
			lastLogin,
			strconv.Itoa(p.LoginCount),
		})
	}
	return buf.Bytes()
}

// IsAdmin reports whether the user is an active admin
func (s *AdminService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.IsAdmin(), nil
}

func diffProfiles(before, after *models.Profile) models.ChangeSet {
	changes := models.ChangeSet{}
	str := func(p *string) interface{} {
		if p == nil {
			return nil
		}
		return *p
	}
	date := func(t *time.Time) interface{} {
		if t == nil {
			return nil
		}
		return t.Format("2006-01-02")
	}
	add := func(field string, from, to interface{}) {
		if from != to {
			changes[field] = models.Change{From: from, To: to}
		}
	}

	add("full_name", str(before.FullName), str(after.FullName))
	add("bio", str(before.Bio), str(after.Bio))
	add("website", str(before.Website), str(after.Website))
	add("location", str(before.Location), str(after.Location))
	add("phone", str(before.Phone), str(after.Phone))
	add("date_of_birth", date(before.DateOfBirth), date(after.DateOfBirth))
	add("preferred_language", before.PreferredLanguage, after.PreferredLanguage)
	add("role", string(before.Role), string(after.Role))
	add("status", string(before.Status), string(after.Status))
	return changes
}
