package routes

import (
	"log/slog"
	"net/http"

	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/handlers"
	"github.com/BradenHooton/dashgate/internal/middleware"
	"github.com/BradenHooton/dashgate/internal/models"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config holds the HTTP surface settings
type Config struct {
	Env            string
	AllowedOrigins []string
	TrustedProxies []string
	AuthRateLimit  int
}

// Dependencies are the wired components the router dispatches to
type Dependencies struct {
	Logger   *slog.Logger
	Metrics  *middleware.Metrics
	Tokens   auth.TokenValidator
	Resolver *auth.SessionResolver
	Guard    *auth.Guard

	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Access  *handlers.AccessHandler
	Admin   *handlers.AdminHandler
}

var (
	selfEdit = auth.Requirement{Permissions: []models.Permission{models.PermProfileUpdate, models.PermUserUpdate}}

	adminRead   = adminWith(models.PermUserRead)
	adminCreate = adminWith(models.PermUserCreate)
	adminUpdate = adminWith(models.PermUserUpdate)
	adminDelete = adminWith(models.PermUserDelete)
	analytics   = auth.Requirement{
		Roles:       []models.Role{models.RoleAdmin, models.RoleModerator},
		Permissions: []models.Permission{models.PermAnalyticsView},
	}
)

func adminWith(perm models.Permission) auth.Requirement {
	return auth.Requirement{Roles: []models.Role{models.RoleAdmin}, Permissions: []models.Permission{perm}}
}

// NewRouter builds the full HTTP handler. Every /api/v1 route except the
// auth endpoints runs token validation, then session resolution, then the
// route's guard requirement.
func NewRouter(cfg Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.TrustedProxies}

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecureLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: cfg.Env}))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))
	r.Use(deps.Metrics.Middleware)
	r.Use(middleware.RequestMeta(ipConfig))

	r.Get("/health", deps.Health.Health)
	r.Head("/health", deps.Health.Health)
	r.Get("/health/db", deps.Health.Database)
	r.Handle("/metrics", deps.Metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteNotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Route("/api/v1", func(api chi.Router) {
		authLimit := middleware.RateLimitByIP(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.AuthRateLimit,
			TrustedProxies:    cfg.TrustedProxies,
		})
		api.Route("/auth", func(ar chi.Router) {
			ar.Use(authLimit)
			ar.Post("/signup", deps.Auth.SignUp)
			ar.Post("/login", deps.Auth.Login)
			ar.Post("/refresh", deps.Auth.Refresh)
		})

		api.Group(func(pr chi.Router) {
			pr.Use(auth.AuthMiddleware(deps.Tokens))
			pr.Use(deps.Resolver.Middleware)
			pr.Use(middleware.CaptureSession)

			registerSelfRoutes(pr, deps)
			registerAdminRoutes(pr, deps)
		})
	})

	return otelhttp.NewHandler(r, "dashgate",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// registerSelfRoutes mounts what any signed-in session may reach. Inactive
// accounts still read their own session so the UI can redirect them.
func registerSelfRoutes(r chi.Router, deps Dependencies) {
	g := deps.Guard

	r.Get("/me", deps.Access.Me)
	r.Get("/me/permissions", deps.Access.Permissions)
	r.Get("/me/menu", deps.Access.Menu)
	r.Post("/access/check", deps.Access.Check)

	r.With(g.Require(selfEdit)).Put("/me/profile", deps.Profile.UpdateProfile)
	r.With(g.Require(selfEdit)).Post("/me/avatar", deps.Profile.UploadAvatar)
	r.With(g.Require(selfEdit)).Delete("/me/avatar", deps.Profile.DeleteAvatar)
	r.With(g.Authenticated()).Get("/profiles/search", deps.Profile.Search)
}

func registerAdminRoutes(r chi.Router, deps Dependencies) {
	g := deps.Guard
	h := deps.Admin

	r.Route("/admin", func(ar chi.Router) {
		ar.With(g.Require(adminRead)).Get("/users", h.ListUsers)
		ar.With(g.Require(adminCreate)).Post("/users", h.CreateUser)
		ar.With(g.Require(adminRead)).Get("/users/search", h.SearchUsers)

		ar.Route("/users/{id}", func(ur chi.Router) {
			ur.With(g.Require(adminRead)).Get("/", h.GetUser)
			ur.With(g.Require(adminUpdate)).Put("/", h.UpdateUser)
			ur.With(g.Require(adminDelete)).Delete("/", h.DeleteUser)
			ur.With(g.Require(adminDelete)).Delete("/profile", h.DeleteUserProfile)
			ur.With(g.Require(adminUpdate)).Put("/role", h.UpdateRole)
			ur.With(g.Require(adminUpdate)).Post("/suspend", h.SuspendUser)
			ur.With(g.Require(adminUpdate)).Post("/unsuspend", h.UnsuspendUser)
			ur.With(g.Require(adminUpdate)).Post("/ban", h.BanUser)
			ur.With(g.Require(adminUpdate)).Post("/unban", h.UnbanUser)
		})

		ar.With(g.AdminOnly()).Get("/logs", h.AdminLogs)
		ar.With(g.Require(analytics)).Get("/stats", h.GetDashboardStats)
		ar.With(g.Require(analytics)).Get("/statistics", h.UserStatistics)
		ar.With(g.Require(adminRead)).Get("/roles", h.Roles)
		ar.With(g.Require(adminRead)).Get("/export", h.ExportUsers)
	})
}
