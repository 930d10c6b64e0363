package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/BradenHooton/dashgate/internal/cache"
	"github.com/BradenHooton/dashgate/internal/models"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
	"golang.org/x/sync/singleflight"
)

const profileLoadTimeout = 5 * time.Second

// ProfileLoader returns the user's profile, creating it when absent
type ProfileLoader interface {
	GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error)
}

// SessionResolver turns token claims into a Session. Concurrent resolutions
// for one user share a single load.
type SessionResolver struct {
	loader ProfileLoader
	cache  cache.ProfileCache
	group  singleflight.Group
	logger *slog.Logger
	now    func() time.Time

	// gens counts invalidations per user; a load only caches its result
	// when no invalidation happened while it was reading.
	mu   sync.Mutex
	gens map[string]uint64
}

func NewSessionResolver(loader ProfileLoader, profileCache cache.ProfileCache, logger *slog.Logger) *SessionResolver {
	return &SessionResolver{
		loader: loader,
		cache:  profileCache,
		logger: logger,
		now:    time.Now,
		gens:   make(map[string]uint64),
	}
}

// Resolve builds the session for claims.
//
// A cached snapshot is used unless it says "not admin" while the token was
// issued after the snapshot was taken; in that case the profile is read again
// and the fresh read wins.
func (sr *SessionResolver) Resolve(ctx context.Context, claims *models.TokenClaims) (*Session, error) {
	if claims == nil || claims.UserID == "" {
		return nil, models.ErrUnauthorized
	}

	if entry, ok := sr.cache.Get(ctx, claims.UserID); ok && !sr.stale(entry, claims) {
		return NewSession(claims.UserID, claims.Email, entry.Profile), nil
	}

	profile, err := sr.load(ctx, claims.UserID, claims.Email)
	if err != nil {
		return nil, err
	}
	return NewSession(claims.UserID, claims.Email, profile), nil
}

func (sr *SessionResolver) stale(entry *cache.ProfileEntry, claims *models.TokenClaims) bool {
	if entry.Profile == nil {
		return true
	}
	if entry.Profile.IsAdmin() || claims.IssuedAt == nil {
		return false
	}
	return claims.IssuedAt.Time.After(entry.CachedAt)
}

func (sr *SessionResolver) load(ctx context.Context, userID, email string) (*models.Profile, error) {
	ch := sr.group.DoChan(userID, func() (interface{}, error) {
		// detached so one caller going away does not fail the others
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), profileLoadTimeout)
		defer cancel()

		gen := sr.generation(userID)
		cachedAt := sr.now()
		profile, err := sr.loader.GetOrCreate(loadCtx, userID, email)
		if err != nil {
			return nil, err
		}

		if sr.generation(userID) != gen {
			return profile, nil
		}
		sr.cache.Set(loadCtx, userID, &cache.ProfileEntry{Profile: profile, CachedAt: cachedAt})
		// an invalidation that raced the Set above wins
		if sr.generation(userID) != gen {
			sr.cache.Invalidate(loadCtx, userID)
		}
		return profile, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Profile), nil
	}
}

func (sr *SessionResolver) generation(userID string) uint64 {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return sr.gens[userID]
}

// Invalidate drops the cached snapshot so the next request reads the
// database. A load already in flight for the user is not cached and is not
// shared with later callers.
func (sr *SessionResolver) Invalidate(ctx context.Context, userID string) {
	sr.mu.Lock()
	sr.gens[userID]++
	sr.group.Forget(userID)
	sr.mu.Unlock()

	sr.cache.Invalidate(ctx, userID)
}

// Middleware resolves the session for requests that passed AuthMiddleware
func (sr *SessionResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			pkghttp.WriteUnauthorized(w, "authentication required")
			return
		}

		session, err := sr.Resolve(r.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrNotFound):
				pkghttp.WriteUnauthorized(w, "account no longer exists")
			case errors.Is(err, context.Canceled):
				return
			default:
				sr.logger.Error("failed to resolve session",
					slog.String("user_id", claims.UserID),
					slog.Any("error", err),
				)
				pkghttp.WriteInternalError(w, "failed to load profile")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
