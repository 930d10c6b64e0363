package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/dashgate/internal/database"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/BradenHooton/dashgate/pkg/auth"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db database.Querier
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db.Pool}
}

// WithTx returns a copy of the repository bound to tx.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, email, full_name, password_hash, token_key, email_confirmed, password_changed_at, created_at, updated_at`

// scanUserRow populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.TokenKey,
		&user.EmailConfirmed, &user.PasswordChangedAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

// scanUserRows iterates through rows and scans each into User models
func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	return scanUserRow(r.db.QueryRow(ctx, query, email))
}

// Create inserts a user with a fresh per-user token key.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	tokenKey, err := auth.GenerateTokenKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token key: %w", err)
	}
	user.TokenKey = tokenKey

	query := `
		INSERT INTO users (email, full_name, password_hash, token_key, email_confirmed, password_changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	return scanUserRow(r.db.QueryRow(ctx, query,
		user.Email, user.FullName, user.PasswordHash, user.TokenKey, user.EmailConfirmed, user.PasswordChangedAt,
	))
}

// Delete removes the user. The profile goes with it.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ListWithoutProfile returns users that have no profile and were created before cutoff.
func (r *UserRepository) ListWithoutProfile(ctx context.Context, cutoff time.Time, limit int) ([]*models.User, error) {
	query := `
		SELECT u.id, u.email, u.full_name, u.password_hash, u.token_key, u.email_confirmed,
		       u.password_changed_at, u.created_at, u.updated_at
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE p.id IS NULL AND u.created_at < $1
		ORDER BY u.created_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query users without profile: %w", err)
	}

	return scanUserRows(rows)
}

// CountWithoutProfile counts users that have no profile.
func (r *UserRepository) CountWithoutProfile(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE p.id IS NULL
	`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users without profile: %w", err)
	}
	return count, nil
}
