package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
)

const (
	systemAdminName  = "System Administrator"
	defaultBatchSize = 500
)

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListWithoutProfile(ctx context.Context, cutoff time.Time, limit int) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
}

type profileStore interface {
	GetOrCreate(ctx context.Context, p *models.Profile) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

type actionLogger interface {
	LogAdminAction(ctx context.Context, adminID, action, targetUserID string, details models.AdminDetails)
}

type commands struct {
	users    userStore
	profiles profileStore
	audit    actionLogger
	out      io.Writer
	logger   *slog.Logger
	now      func() time.Time
	batch    int
}

func (c *commands) batchSize() int {
	if c.batch > 0 {
		return c.batch
	}
	return defaultBatchSize
}

// promoteAdmin turns an existing account into an active admin. A banned
// account stays banned.
func (c *commands) promoteAdmin(ctx context.Context, email string) error {
	user, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", email, err)
	}

	profile, err := c.profiles.GetOrCreate(ctx, models.NewDefaultProfile(user.ID, user.Email, user.FullName))
	if err != nil {
		return err
	}
	if err := models.ValidateTransition(profile.Status, models.StatusActive); err != nil {
		return err
	}

	before := profile.Role
	name := systemAdminName
	profile.Role = models.RoleAdmin
	profile.Status = models.StatusActive
	profile.FullName = &name
	profile.SuspendedUntil = nil
	profile.SuspensionReason = nil

	if _, err := c.profiles.Update(ctx, profile); err != nil {
		return err
	}

	c.audit.LogAdminAction(ctx, models.SystemActorID, models.AdminActionSystemSetup, user.ID, models.AdminDetails{
		"email":         user.Email,
		"previous_role": string(before),
		"role":          string(models.RoleAdmin),
	})
	fmt.Fprintf(c.out, "promoted %s (%s) to admin\n", user.Email, user.ID)
	return nil
}

// backfillProfiles creates the default profile for every user missing one
func (c *commands) backfillProfiles(ctx context.Context) (int, error) {
	created := 0
	for {
		users, err := c.users.ListWithoutProfile(ctx, c.now(), c.batchSize())
		if err != nil {
			return created, err
		}
		if len(users) == 0 {
			break
		}
		for _, u := range users {
			if _, err := c.profiles.GetOrCreate(ctx, models.NewDefaultProfile(u.ID, u.Email, u.FullName)); err != nil {
				return created, fmt.Errorf("create profile for %s: %w", u.ID, err)
			}
			created++
		}
		if len(users) < c.batchSize() {
			break
		}
	}

	fmt.Fprintf(c.out, "created %d profiles\n", created)
	return created, nil
}

// pruneOrphans deletes users without a profile created more than olderThan
// ago, one batch at a time. With dryRun it only lists the first batch.
func (c *commands) pruneOrphans(ctx context.Context, olderThan time.Duration, dryRun bool) (int, error) {
	cutoff := c.now().Add(-olderThan)

	if dryRun {
		users, err := c.users.ListWithoutProfile(ctx, cutoff, c.batchSize())
		if err != nil {
			return 0, err
		}
		for _, u := range users {
			fmt.Fprintf(c.out, "would delete %s %s (created %s)\n", u.ID, u.Email, u.CreatedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(c.out, "%d orphaned users older than %s\n", len(users), olderThan)
		return len(users), nil
	}

	deleted := 0
	defer func() {
		if deleted > 0 {
			c.audit.LogAdminAction(ctx, models.SystemActorID, models.AdminActionDeleteUser, "", models.AdminDetails{
				"reason":     "orphan_prune",
				"count":      deleted,
				"older_than": olderThan.String(),
			})
		}
	}()

	for {
		users, err := c.users.ListWithoutProfile(ctx, cutoff, c.batchSize())
		if err != nil {
			return deleted, err
		}

		removed := 0
		for _, u := range users {
			if err := c.users.Delete(ctx, u.ID); err != nil {
				c.logger.Warn("failed to delete orphaned user", slog.String("user_id", u.ID), slog.Any("error", err))
				continue
			}
			removed++
		}
		deleted += removed

		// a batch where every delete failed would come back unchanged
		if len(users) < c.batchSize() || removed == 0 {
			break
		}
	}

	fmt.Fprintf(c.out, "deleted %d orphaned users\n", deleted)
	return deleted, nil
}
