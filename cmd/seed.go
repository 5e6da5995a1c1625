package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"seed-manager/core/config"
	"seed-manager/core/database"
	"seed-manager/core/identity"
	"seed-manager/core/logger"
	"seed-manager/feature/provision/plan"
	"seed-manager/feature/provision/seeder"
	"seed-manager/feature/provision/store"
	"seed-manager/feature/provision/verify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the seed command
	safePreset bool
	yesConfirm bool
)

// seedCmd runs one interactive provisioning pass against both stores.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Provision identity accounts and relational data (interactive)",
	Long: `Seed collects an execution plan interactively, shows the current table
state, and then provisions both stores in dependency order: catalogs,
centers, role accounts, link tables, and sample relational data.

A destructive plan (wipe) requires typing the literal confirmation phrase.
Every phase is idempotent; re-running the same plan converges.

Examples:
  # Interactive run (prompts for every option)
  seed-manager seed

  # Conservative preset: admins + catalogs, no wipe, no prompts
  seed-manager seed --preset-safe --yes`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&safePreset, "preset-safe", false, "Use the conservative preset (admins + catalogs, no wipe)")
	seedCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Skip prompts; only valid together with --preset-safe")

	RootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if safePreset && !yesConfirm {
		return errors.New("--preset-safe requires --yes to execute")
	}
	if yesConfirm && !safePreset {
		return errors.New("--yes requires --preset-safe; interactive plans must be confirmed by hand")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	l.Info("connecting to database")
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	schema, err := database.LoadSchema(db)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	st := store.New(db, schema, l)

	checker := verify.New(st, l)
	snap, err := checker.Precheck(ctx)
	if err != nil {
		return fmt.Errorf("precheck failed: %w", err)
	}
	l.Info("current table state before seeding")
	snap.Log(l)

	var p plan.Plan
	if safePreset {
		p = plan.SafePreset(cfg.Seed.DefaultPassword)
		l.Info("using safe preset", zap.Int("users", p.TotalUsers()))
	} else {
		collected, err := plan.NewCollector(os.Stdin, os.Stdout).Collect(cfg.Seed.DefaultPassword)
		if errors.Is(err, plan.ErrAborted) {
			l.Info("aborted, nothing changed")
			return nil
		}
		if err != nil {
			return err
		}
		p = *collected
	}

	ids := identity.NewClient(cfg.Supabase, l)
	report, err := seeder.New(ids, st, l, p).Run(ctx)
	if report != nil {
		report.Log(l)
	}
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	post, err := checker.Postcheck(ctx, report.SeededEmails)
	if err != nil {
		return fmt.Errorf("postcheck failed: %w", err)
	}
	l.Info("postcheck complete",
		zap.Int("seeded_found", post.SeededFound),
		zap.Int("seeded_missing", post.SeededMissing),
		zap.Int64("detached_centers", post.DetachedCenters),
	)

	l.Info("seeding complete")
	return nil
}
