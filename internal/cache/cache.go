// Package cache holds short-lived profile snapshots used to resolve sessions
// without a database round trip on every request.
package cache

import (
	"context"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
)

// ProfileEntry is a cached profile and the moment it was read from the database
type ProfileEntry struct {
	Profile  *models.Profile `json:"profile"`
	CachedAt time.Time       `json:"cached_at"`
}

// ProfileCache stores profile snapshots keyed by user ID. Implementations
// treat backend failures as misses.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*ProfileEntry, bool)
	Set(ctx context.Context, userID string, entry *ProfileEntry)
	Invalidate(ctx context.Context, userID string)
	Close() error
}
