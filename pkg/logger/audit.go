package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuthEvent describes a sign-in, sign-up or token refresh attempt
type AuthEvent struct {
	EventType     string
	UserID        string
	Email         string
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
}

// AccessEvent describes one authorization decision
type AccessEvent struct {
	UserID   string
	Role     string
	Method   string
	Path     string
	Allowed  bool
	Reason   string
	Required []string
}

// AuditLogger writes security events to the structured log
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogAuthAttempt logs authentication attempts. Failures are logged at warn.
func (al *AuditLogger) LogAuthAttempt(ctx context.Context, event AuthEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Email)))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

// LogAccessDecision logs a denied decision at warn and an allowed one at debug
func (al *AuditLogger) LogAccessDecision(ctx context.Context, event AccessEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "access"),
		slog.Bool("allowed", event.Allowed),
		slog.String("method", event.Method),
		slog.String("path", event.Path),
	}

	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Role != "" {
		attrs = append(attrs, slog.String("role", event.Role))
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}
	if len(event.Required) > 0 {
		attrs = append(attrs, slog.Any("required", event.Required))
	}

	level := slog.LevelDebug
	if !event.Allowed {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "access decision", attrs...)
}
