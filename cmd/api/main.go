package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/dashgate/internal/access"
	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/background"
	"github.com/BradenHooton/dashgate/internal/cache"
	"github.com/BradenHooton/dashgate/internal/config"
	"github.com/BradenHooton/dashgate/internal/database"
	"github.com/BradenHooton/dashgate/internal/handlers"
	"github.com/BradenHooton/dashgate/internal/middleware"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/BradenHooton/dashgate/internal/navigation"
	"github.com/BradenHooton/dashgate/internal/repositories"
	"github.com/BradenHooton/dashgate/internal/routes"
	"github.com/BradenHooton/dashgate/internal/services"
	"github.com/BradenHooton/dashgate/internal/storage"
	"github.com/BradenHooton/dashgate/internal/telemetry"
	pkgauth "github.com/BradenHooton/dashgate/pkg/auth"
	pkglogger "github.com/BradenHooton/dashgate/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown error", slog.Any("error", err))
		}
	}()

	// Initialize database
	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.Pool, logger); err != nil {
			return err
		}
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	adminLogRepo := repositories.NewAdminLogRepository(db)
	provisioner := repositories.NewProvisioner(db, userRepo, profileRepo)

	// Session cache: Redis when configured so every replica sees invalidations
	var profileCache cache.ProfileCache
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache, cfg.Auth.SessionCacheTTL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		profileCache = rc
	} else {
		profileCache = cache.NewMemoryCache(cfg.Auth.SessionCacheSize, cfg.Auth.SessionCacheTTL)
	}
	defer profileCache.Close()

	var avatars services.AvatarStore
	if cfg.Storage.Enabled {
		store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize avatar storage: %w", err)
		}
		avatars = store
	}

	var notifier services.Notifier = services.NewLogNotifier(logger)
	if cfg.Email.Enabled {
		ses, err := services.NewSESNotifier(ctx, cfg.Email.AWSRegion, cfg.Email.FromAddress, cfg.Email.AppURL, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize email notifier: %w", err)
		}
		notifier = ses
	}

	routeTable, err := access.Load(cfg.Access.RouteConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load route table: %w", err)
	}
	menu, err := navigation.Load(cfg.Access.MenuConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	auditLogger := pkglogger.NewAuditLogger(logger)
	metrics := middleware.NewMetrics(prometheus.NewRegistry())
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry, cfg.Auth.RefreshTokenExpiry, userRepo)
	policy := pkgauth.DefaultPasswordPolicy(cfg.Auth.PasswordMinLength)

	// Services
	profileService := services.NewProfileService(profileRepo, userRepo, avatars, cfg.Storage.MaxAvatarSize, logger)
	resolver := auth.NewSessionResolver(profileService, profileCache, logger)
	profileService.SetInvalidator(resolver)

	auditService := services.NewAuditService(adminLogRepo, logger)
	authService := services.NewAuthService(userRepo, profileService, profileRepo, tokenManager, policy, logger, auditLogger)
	adminService := services.NewAdminService(profileRepo, userRepo, provisioner, adminLogRepo, auditService, notifier, resolver, policy, logger)

	// Bootstrap first admin user if configured
	bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := ensureAdminUser(bootCtx, cfg.Bootstrap, userRepo, provisioner, auditService, policy, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	cancel()

	var scheduler *background.Scheduler
	if cfg.Jobs.Enabled {
		scheduler, err = background.NewScheduler(cfg.Jobs, background.Deps{
			Profiles:    profileRepo,
			Logs:        adminLogRepo,
			Users:       userRepo,
			Audit:       auditService,
			Invalidator: resolver,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to schedule jobs: %w", err)
		}
		scheduler.Start()
	}

	router := routes.NewRouter(routes.Config{
		Env:            cfg.Server.Env,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		AuthRateLimit:  cfg.Server.AuthRateLimit,
	}, routes.Dependencies{
		Logger:   logger,
		Metrics:  metrics,
		Tokens:   tokenManager,
		Resolver: resolver,
		Guard:    auth.NewGuard(metrics, auditLogger),
		Health:   handlers.NewHealthHandler(db, logger),
		Auth:     handlers.NewAuthHandler(authService, logger),
		Profile:  handlers.NewProfileHandler(profileService, cfg.Storage.MaxAvatarSize, logger),
		Access:   handlers.NewAccessHandler(routeTable, menu),
		Admin:    handlers.NewAdminHandler(adminService, logger),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureAdminUser creates the first admin account if ADMIN_EMAIL and
// ADMIN_PASSWORD are set and no user with that email exists yet.
func ensureAdminUser(
	ctx context.Context,
	cfg config.BootstrapConfig,
	users *repositories.UserRepository,
	provisioner *repositories.Provisioner,
	audit *services.AuditService,
	policy pkgauth.PasswordPolicy,
	logger *slog.Logger,
) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin user creation")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		logger.Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	if err := policy.Validate(cfg.AdminPassword); err != nil {
		return fmt.Errorf("admin password rejected: %w", err)
	}
	hashedPassword, err := pkgauth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := "Admin"
	now := time.Now()
	profile := models.NewDefaultProfile("", email, &name)
	profile.Role = models.RoleAdmin

	created, err := provisioner.CreateUserWithProfile(ctx, &models.User{
		Email:             email,
		FullName:          &name,
		PasswordHash:      hashedPassword,
		EmailConfirmed:    true,
		PasswordChangedAt: &now,
	}, profile)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	audit.LogAdminAction(ctx, models.SystemActorID, models.AdminActionSystemSetup, created.UserID, models.AdminDetails{
		"email": email,
		"role":  string(models.RoleAdmin),
	})

	logger.Info("admin user created successfully", slog.String("user_id", created.UserID))
	return nil
}
