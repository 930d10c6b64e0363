package middleware

import (
	"net/http"

	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/BradenHooton/dashgate/internal/services"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
)

// RequestMeta records the client address and user agent on the request
// context for login auditing and admin log entries.
func RequestMeta(ipConfig *pkghttp.IPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := services.WithRequestMeta(r.Context(), models.RequestMeta{
				IPAddress: pkghttp.ExtractClientIP(r, ipConfig),
				UserAgent: pkghttp.UserAgent(r),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
