package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/dashgate/internal/database"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/jackc/pgx/v5"
)

// AdminLogRepository handles admin log data access
type AdminLogRepository struct {
	db database.Querier
}

// NewAdminLogRepository creates a new AdminLogRepository
func NewAdminLogRepository(db *database.DB) *AdminLogRepository {
	return &AdminLogRepository{db: db.Pool}
}

const adminLogColumns = `id, admin_id, action, target_user_id, details, ip_address, user_agent, created_at`

// scanAdminLogRow populates an AdminLog model from a database row
func scanAdminLogRow(row rowScanner) (*models.AdminLog, error) {
	var log models.AdminLog

	err := row.Scan(
		&log.ID, &log.AdminID, &log.Action, &log.TargetUserID,
		&log.Details, &log.IPAddress, &log.UserAgent, &log.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &log, nil
}

// scanAdminLogRows iterates through rows and scans each into AdminLog models
func scanAdminLogRows(rows pgx.Rows) ([]*models.AdminLog, error) {
	defer rows.Close()

	logs := make([]*models.AdminLog, 0)

	for rows.Next() {
		log, err := scanAdminLogRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin log rows: %w", err)
	}

	return logs, nil
}

// Create appends a new admin log entry
func (r *AdminLogRepository) Create(ctx context.Context, log *models.AdminLog) (*models.AdminLog, error) {
	query := `
		INSERT INTO admin_logs (admin_id, action, target_user_id, details, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + adminLogColumns

	result, err := scanAdminLogRow(r.db.QueryRow(
		ctx, query,
		log.AdminID, log.Action, log.TargetUserID, log.Details, log.IPAddress, log.UserAgent,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create admin log: %w", err)
	}

	return result, nil
}

// List returns one page of admin logs, newest first, with the exact total
func (r *AdminLogRepository) List(ctx context.Context, page models.Page) ([]*models.AdminLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count admin logs: %w", err)
	}

	query := `SELECT ` + adminLogColumns + ` FROM admin_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query admin logs: %w", err)
	}

	logs, err := scanAdminLogRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListByTarget returns the most recent entries concerning a user
func (r *AdminLogRepository) ListByTarget(ctx context.Context, userID string, limit int) ([]*models.AdminLog, error) {
	query := `
		SELECT ` + adminLogColumns + `
		FROM admin_logs
		WHERE target_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin logs: %w", err)
	}
	return scanAdminLogRows(rows)
}

// Cleanup removes admin logs older than the specified number of days
func (r *AdminLogRepository) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	query := `
		DELETE FROM admin_logs
		WHERE created_at < CURRENT_TIMESTAMP - INTERVAL '1 day' * $1
	`

	result, err := r.db.Exec(ctx, query, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup admin logs: %w", err)
	}

	return result.RowsAffected(), nil
}
