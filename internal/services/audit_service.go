package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/dashgate/internal/models"
)

// AdminLogWriter persists admin log entries
type AdminLogWriter interface {
	Create(ctx context.Context, log *models.AdminLog) (*models.AdminLog, error)
}

type requestMetaKey struct{}

// WithRequestMeta attaches the caller's address and user agent to ctx so
// admin log entries can record them.
func WithRequestMeta(ctx context.Context, meta models.RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the meta stored by WithRequestMeta, or the zero value
func RequestMetaFrom(ctx context.Context) models.RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(models.RequestMeta)
	return meta
}

// AuditService records administrative actions with a dual write: a structured
// log line and a row in admin_logs.
type AuditService struct {
	repo   AdminLogWriter
	logger *slog.Logger
}

func NewAuditService(repo AdminLogWriter, logger *slog.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

// LogAdminAction never fails the caller. A failed insert is logged and dropped.
func (s *AuditService) LogAdminAction(ctx context.Context, adminID, action, targetUserID string, details models.AdminDetails) {
	meta := RequestMetaFrom(ctx)

	entry := &models.AdminLog{
		AdminID: adminID,
		Action:  action,
		Details: details,
	}
	if targetUserID != "" {
		entry.TargetUserID = &targetUserID
	}
	if meta.IPAddress != "" {
		entry.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		entry.UserAgent = &meta.UserAgent
	}

	s.logger.InfoContext(ctx, "admin action",
		slog.String("admin_id", adminID),
		slog.String("action", action),
		slog.String("target_user_id", targetUserID),
		slog.String("ip_address", meta.IPAddress),
		slog.Any("details", details),
	)

	if _, err := s.repo.Create(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist admin log",
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
