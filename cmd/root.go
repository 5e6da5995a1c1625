package cmd

import (
	"fmt"
	"os"

	"seed-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "seed-manager",
	Short: "Seed Manager Service",
	Long: `Seed Manager provisions and reconciles the medical platform's data stores.
It brings the Supabase identity store and the relational database into a
consistent, known-good state: catalogs, centers, role accounts, and sample
relational data, created idempotently and in dependency order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting.
		// Console format with "debug" level gives ISO8601 timestamps,
		// which is what an operator at a terminal expects.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
