package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/readmitprep/internal/db"
	"github.com/gyeh/readmitprep/internal/exitcode"
	"github.com/gyeh/readmitprep/internal/logging"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the readmit schema migrations (or list them with --status)",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "List applied migrations without applying any")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or READMITPREP_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if !migrateStatus {
		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			log.Error().Err(err).Msg("migration failed")
			os.Exit(exitcode.TransformError)
		}
	}

	applied, err := db.AppliedMigrations(ctx, pool)
	if err != nil {
		log.Error().Err(err).Msg("list migrations failed")
		os.Exit(exitcode.TransformError)
	}
	if len(applied) == 0 {
		fmt.Println("No migrations applied.")
		return nil
	}
	for _, m := range applied {
		fmt.Printf("  %-24s %s\n", m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
