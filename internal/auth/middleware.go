package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/BradenHooton/dashgate/internal/models"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
)

type contextKey string

const (
	claimsContextKey  contextKey = "claims"
	sessionContextKey contextKey = "session"
)

// TokenValidator is satisfied by *TokenManager
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*models.TokenClaims, error)
}

// AuthMiddleware validates the bearer access token and injects its claims
// into the request context.
func AuthMiddleware(tv TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				pkghttp.WriteUnauthorized(w, "missing or malformed authorization header")
				return
			}

			claims, err := tv.ValidateToken(r.Context(), tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			// refresh tokens are only accepted by /auth/refresh
			if claims.Type != models.TokenTypeAccess {
				pkghttp.WriteUnauthorized(w, "refresh tokens cannot be used for API access")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithClaims stores token claims in ctx
func WithClaims(ctx context.Context, claims *models.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims placed by AuthMiddleware, or nil
func ClaimsFromContext(ctx context.Context) *models.TokenClaims {
	claims, _ := ctx.Value(claimsContextKey).(*models.TokenClaims)
	return claims
}
