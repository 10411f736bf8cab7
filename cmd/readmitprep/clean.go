package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/readmitprep/internal/exitcode"
	"github.com/gyeh/readmitprep/internal/logging"
	"github.com/gyeh/readmitprep/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the cleaning pipeline and write the output table",
	RunE:  runClean,
}

func init() {
	addRunFlags(cleanCmd)
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	_, summary, err := pipeline.Run(log, &cfg)
	if err != nil {
		exitFor(log, err)
	}

	fmt.Printf("Clean complete: %d rows read, %d rows written to %s (%.1fs)\n",
		summary.RowsRead, summary.RowsWritten, summary.OutputPath, summary.DurationTotal.Seconds())
	return nil
}
