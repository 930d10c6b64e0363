package repositories

import (
	"context"

	"github.com/BradenHooton/dashgate/internal/database"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/jackc/pgx/v5"
)

// Provisioner creates accounts that need both tables written atomically
type Provisioner struct {
	db       *database.DB
	users    *UserRepository
	profiles *ProfileRepository
}

func NewProvisioner(db *database.DB, users *UserRepository, profiles *ProfileRepository) *Provisioner {
	return &Provisioner{db: db, users: users, profiles: profiles}
}

// CreateUserWithProfile inserts user and profile in one transaction.
// profile.UserID is filled from the new user.
func (p *Provisioner) CreateUserWithProfile(ctx context.Context, user *models.User, profile *models.Profile) (*models.Profile, error) {
	var created *models.Profile

	err := p.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		u, err := p.users.WithTx(tx).Create(ctx, user)
		if err != nil {
			return err
		}

		profile.UserID = u.ID
		profile.Email = u.Email
		created, err = p.profiles.WithTx(tx).Create(ctx, profile)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
