// Package background runs the periodic maintenance jobs on a cron schedule.
package background

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/dashgate/internal/config"
	"github.com/BradenHooton/dashgate/internal/models"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 30 * time.Second

// SuspensionExpirer reactivates profiles whose suspension has ended
type SuspensionExpirer interface {
	ExpireSuspensions(ctx context.Context, now time.Time) ([]string, error)
}

// LogPruner deletes old admin log entries
type LogPruner interface {
	Cleanup(ctx context.Context, olderThanDays int) (int64, error)
}

// OrphanCounter counts users that never got a profile
type OrphanCounter interface {
	CountWithoutProfile(ctx context.Context) (int64, error)
}

// ActionLogger appends admin log entries
type ActionLogger interface {
	LogAdminAction(ctx context.Context, adminID, action, targetUserID string, details models.AdminDetails)
}

// Invalidator drops cached sessions
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Deps are the stores the jobs operate on
type Deps struct {
	Profiles    SuspensionExpirer
	Logs        LogPruner
	Users       OrphanCounter
	Audit       ActionLogger
	Invalidator Invalidator
}

// Scheduler owns the cron runner and the job bodies
type Scheduler struct {
	cron          *cron.Cron
	deps          Deps
	retentionDays int
	logger        *slog.Logger
	now           func() time.Time
}

// NewScheduler registers every job. An invalid spec is an error.
func NewScheduler(cfg config.JobsConfig, deps Deps, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:          cron.New(),
		deps:          deps,
		retentionDays: cfg.AdminLogRetentionDays,
		logger:        logger,
		now:           time.Now,
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context)
	}{
		{"suspension_expiry", cfg.SuspensionExpirySpec, s.ExpireSuspensions},
		{"admin_log_retention", cfg.LogRetentionSpec, s.PruneAdminLogs},
		{"orphan_report", cfg.OrphanReportSpec, s.ReportOrphans},
	}

	for _, job := range jobs {
		run := job.run
		if _, err := s.cron.AddFunc(job.spec, func() { run(context.Background()) }); err != nil {
			return nil, fmt.Errorf("failed to schedule %s (%q): %w", job.name, job.spec, err)
		}
		logger.Info("job scheduled", slog.String("job", job.name), slog.String("spec", job.spec))
	}

	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs or ctx, whichever is first
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// ExpireSuspensions moves ended suspensions back to active
func (s *Scheduler) ExpireSuspensions(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	ids, err := s.deps.Profiles.ExpireSuspensions(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to expire suspensions", slog.Any("error", err))
		return
	}

	for _, id := range ids {
		s.deps.Invalidator.Invalidate(ctx, id)
		s.deps.Audit.LogAdminAction(ctx, models.SystemActorID, models.AdminActionSuspensionExpired, id, models.AdminDetails{
			"source": "scheduler",
		})
	}

	if len(ids) > 0 {
		s.logger.Info("suspensions expired", slog.Int("count", len(ids)))
	}
}

// PruneAdminLogs removes entries past the retention window
func (s *Scheduler) PruneAdminLogs(ctx context.Context) {
	if s.retentionDays <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	rows, err := s.deps.Logs.Cleanup(ctx, s.retentionDays)
	if err != nil {
		s.logger.Error("failed to prune admin logs", slog.Any("error", err))
		return
	}

	if rows > 0 {
		s.logger.Info("admin log cleanup completed",
			slog.Int64("rows_deleted", rows),
			slog.Int("retention_days", s.retentionDays))
	}
}

// ReportOrphans logs how many users have no profile yet
func (s *Scheduler) ReportOrphans(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	count, err := s.deps.Users.CountWithoutProfile(ctx)
	if err != nil {
		s.logger.Error("failed to count users without profile", slog.Any("error", err))
		return
	}

	level := slog.LevelInfo
	if count > 0 {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "users without profile", slog.Int64("count", count))
}
