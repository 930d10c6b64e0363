// Command maintenance runs one-off account repairs against the dashboard
// database.
//
//	maintenance promote-admin <email>
//	maintenance backfill-profiles
//	maintenance prune-orphans --older-than=720h [--dry-run]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/dashgate/internal/config"
	"github.com/BradenHooton/dashgate/internal/database"
	"github.com/BradenHooton/dashgate/internal/repositories"
	"github.com/BradenHooton/dashgate/internal/services"
)

const usage = `usage: maintenance <command> [flags]

commands:
  promote-admin <email>                      make an existing account an active admin
  backfill-profiles                          create missing profiles
  prune-orphans --older-than=720h [--dry-run] delete users that never got a profile
                                             (--dry-run lists the first 500 only)
`

var errUsage = errors.New("invalid usage")

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := run(os.Args[1:], logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("maintenance command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(args []string, logger *slog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	cmds := &commands{
		users:    repositories.NewUserRepository(db),
		profiles: repositories.NewProfileRepository(db),
		audit:    services.NewAuditService(repositories.NewAdminLogRepository(db), logger),
		out:      os.Stdout,
		logger:   logger,
		now:      time.Now,
	}
	return dispatch(ctx, cmds, args)
}

func dispatch(ctx context.Context, cmds *commands, args []string) error {
	switch args[0] {
	case "promote-admin":
		if len(args) != 2 || strings.TrimSpace(args[1]) == "" {
			return errUsage
		}
		return cmds.promoteAdmin(ctx, strings.ToLower(strings.TrimSpace(args[1])))

	case "backfill-profiles":
		_, err := cmds.backfillProfiles(ctx)
		return err

	case "prune-orphans":
		fs := flag.NewFlagSet("prune-orphans", flag.ContinueOnError)
		olderThan := fs.Duration("older-than", 30*24*time.Hour, "minimum age of an orphaned user")
		dryRun := fs.Bool("dry-run", false, "list orphans without deleting")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		if *olderThan <= 0 {
			return fmt.Errorf("%w: --older-than must be positive", errUsage)
		}
		_, err := cmds.pruneOrphans(ctx, *olderThan, *dryRun)
		return err
	}

	return errUsage
}
