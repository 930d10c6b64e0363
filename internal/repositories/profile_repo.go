package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BradenHooton/dashgate/internal/database"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/jackc/pgx/v5"
)

// ProfileRepository handles profile data access
type ProfileRepository struct {
	db database.Querier
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db.Pool}
}

// WithTx returns a copy of the repository bound to tx.
func (r *ProfileRepository) WithTx(tx pgx.Tx) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

const profileColumns = `id, user_id, email, full_name, avatar_url, bio, website, location, phone,
	date_of_birth, preferred_language, role, status, last_login_at, login_count,
	suspended_until, suspension_reason, created_by, updated_by, created_at, updated_at`

// scanProfileRow populates a Profile model from a database row
func scanProfileRow(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var role, status string

	err := row.Scan(
		&p.ID, &p.UserID, &p.Email, &p.FullName, &p.AvatarURL, &p.Bio, &p.Website, &p.Location, &p.Phone,
		&p.DateOfBirth, &p.PreferredLanguage, &role, &status, &p.LastLoginAt, &p.LoginCount,
		&p.SuspendedUntil, &p.SuspensionReason, &p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	p.Role = models.Role(role)
	p.Status = models.Status(status)
	return &p, nil
}

// scanProfileRows iterates through rows and scans each into Profile models
func scanProfileRows(rows pgx.Rows) ([]*models.Profile, error) {
	defer rows.Close()

	profiles := make([]*models.Profile, 0)

	for rows.Next() {
		p, err := scanProfileRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, nil
}

// GetByUserID fetches the profile of a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	return scanProfileRow(r.db.QueryRow(ctx, query, userID))
}

// Create inserts a profile and fails with ErrConflict when one already exists
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, email, full_name, preferred_language, role, status, login_count, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + profileColumns

	created, err := scanProfileRow(r.db.QueryRow(ctx, query,
		p.UserID, p.Email, p.FullName, p.PreferredLanguage, string(p.Role), string(p.Status), p.LoginCount, p.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}

// GetOrCreate returns the existing profile or inserts p. Concurrent callers
// for the same user all receive the single stored row.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, email, full_name, preferred_language, role, status, login_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET user_id = profiles.user_id
		RETURNING ` + profileColumns

	result, err := scanProfileRow(r.db.QueryRow(ctx, query,
		p.UserID, p.Email, p.FullName, p.PreferredLanguage, string(p.Role), string(p.Status), p.LoginCount,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return result, nil
}

// Update writes every mutable column of p
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query := `
		UPDATE profiles SET
			full_name = $2, avatar_url = $3, bio = $4, website = $5, location = $6, phone = $7,
			date_of_birth = $8, preferred_language = $9, role = $10, status = $11,
			suspended_until = $12, suspension_reason = $13, updated_by = $14, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	return scanProfileRow(r.db.QueryRow(ctx, query,
		p.UserID, p.FullName, p.AvatarURL, p.Bio, p.Website, p.Location, p.Phone,
		p.DateOfBirth, p.PreferredLanguage, string(p.Role), string(p.Status),
		p.SuspendedUntil, p.SuspensionReason, p.UpdatedBy,
	))
}

// RecordLogin bumps the login counter and timestamp in one statement
func (r *ProfileRepository) RecordLogin(ctx context.Context, userID string) error {
	query := `
		UPDATE profiles
		SET login_count = login_count + 1, last_login_at = NOW()
		WHERE user_id = $1
	`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// List returns one page of profiles, newest first, with the exact total
func (r *ProfileRepository) List(ctx context.Context, page models.Page) ([]*models.Profile, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query profiles: %w", err)
	}

	profiles, err := scanProfileRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// ListAll returns every profile, newest first
func (r *ProfileRepository) ListAll(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	return scanProfileRows(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches full name or email case-insensitively
func (r *ProfileRepository) Search(ctx context.Context, term string, limit int, activeOnly bool) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE (full_name ILIKE $1 OR email ILIKE $1)
		  AND ($3 = FALSE OR status = 'active')
		ORDER BY created_at DESC
		LIMIT $2
	`

	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"

	rows, err := r.db.Query(ctx, query, pattern, limit, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	return scanProfileRows(rows)
}

// Delete removes only the profile row
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ExpireSuspensions reactivates suspended profiles whose suspension has ended
// and returns the affected user IDs.
func (r *ProfileRepository) ExpireSuspensions(ctx context.Context, now time.Time) ([]string, error) {
	query := `
		UPDATE profiles
		SET status = 'active', suspended_until = NULL, suspension_reason = NULL, updated_at = NOW()
		WHERE status = 'suspended' AND suspended_until IS NOT NULL AND suspended_until <= $1
		RETURNING user_id
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire suspensions: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountTotal counts all profiles
func (r *ProfileRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// CountByStatus counts profiles in a status
func (r *ProfileRepository) CountByStatus(ctx context.Context, status models.Status) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE status = $1`, string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles by status: %w", err)
	}
	return count, nil
}

// CountByRole counts profiles holding a role
func (r *ProfileRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role = $1`, string(role)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles by role: %w", err)
	}
	return count, nil
}

// CountNewSince counts profiles created at or after since
func (r *ProfileRepository) CountNewSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE created_at >= $1`, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count new profiles: %w", err)
	}
	return count, nil
}

// DailyStatistics returns one row per day for the last days days, oldest first
func (r *ProfileRepository) DailyStatistics(ctx context.Context, days int) ([]models.UserStatistics, error) {
	query := `
		SELECT d::date,
			(SELECT COUNT(*) FROM profiles p WHERE p.created_at >= d AND p.created_at < d + INTERVAL '1 day'),
			(SELECT COUNT(*) FROM profiles p WHERE p.last_login_at >= d AND p.last_login_at < d + INTERVAL '1 day'),
			(SELECT COUNT(*) FROM profiles p WHERE p.status = 'suspended' AND p.updated_at >= d AND p.updated_at < d + INTERVAL '1 day'),
			(SELECT COUNT(*) FROM profiles p WHERE p.status = 'banned' AND p.updated_at >= d AND p.updated_at < d + INTERVAL '1 day')
		FROM generate_series(
			date_trunc('day', NOW()) - ($1::int - 1) * INTERVAL '1 day',
			date_trunc('day', NOW()),
			INTERVAL '1 day'
		) AS d
		ORDER BY d
	`

	rows, err := r.db.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query user statistics: %w", err)
	}
	defer rows.Close()

	stats := make([]models.UserStatistics, 0, days)
	for rows.Next() {
		var s models.UserStatistics
		if err := rows.Scan(&s.Date, &s.NewUsers, &s.ActiveUsers, &s.SuspendedUsers, &s.BannedUsers); err != nil {
			return nil, fmt.Errorf("failed to scan user statistics: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
