package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/readmitprep/internal/db"
	"github.com/gyeh/readmitprep/internal/exitcode"
	"github.com/gyeh/readmitprep/internal/logging"
	"github.com/gyeh/readmitprep/internal/pipeline"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Run the pipeline, write the output table and COPY it into Postgres",
	RunE:  runPublish,
}

func init() {
	addRunFlags(publishCmd)
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	// Connect first so a bad DSN fails before any output is written.
	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	t, summary, err := pipeline.Run(log, &cfg)
	if err != nil {
		exitFor(log, err)
	}
	if err := pipeline.Publish(ctx, pool, log, summary, t); err != nil {
		exitFor(log, err)
	}

	fmt.Printf("Publish complete: run %s, %d rows written, %d rows in readmit.clean_encounters (%.1fs)\n",
		summary.RunID, summary.RowsWritten, summary.RowsPublished,
		(summary.DurationTotal + summary.DurationPublish).Seconds())
	return nil
}
