package cmd

import (
	"context"
	"fmt"

	"seed-manager/core/config"
	"seed-manager/core/database"
	"seed-manager/core/logger"
	"seed-manager/feature/provision/store"
	"seed-manager/feature/provision/verify"

	"github.com/spf13/cobra"
)

// statusCmd reports the current table state without mutating anything.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report current table counts and schema gaps (read-only)",
	Long: `Status runs the same inspection the seed command runs before mutating:
row counts for every table the seeder touches, plus any tables absent from
the connected schema. Nothing is written.`,
	RunE: runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL (or SUPABASE_DB_URL) is required")
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	schema, err := database.LoadSchema(db)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}

	snap, err := verify.New(store.New(db, schema, l), l).Precheck(ctx)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	snap.Log(l)
	return nil
}
