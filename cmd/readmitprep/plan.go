package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/readmitprep/internal/dedup"
	"github.com/gyeh/readmitprep/internal/exitcode"
	"github.com/gyeh/readmitprep/internal/logging"
	"github.com/gyeh/readmitprep/internal/normalize"
	"github.com/gyeh/readmitprep/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run the pipeline and report stage counts (no writes)",
	RunE:  runPlan,
}

func init() {
	addRunFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.InputPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}

	// Stage logs would interleave with the report.
	counts, err := pipeline.Plan(zerolog.Nop(), &cfg)
	if err != nil {
		exitFor(log, err)
	}

	fmt.Println("=== readmitprep plan ===")
	fmt.Printf("File:            %s\n", cfg.InputPath)
	fmt.Printf("SHA-256:         %s\n", sha)
	fmt.Printf("Seed:            %d\n", cfg.Seed)
	fmt.Printf("Rows read:       %d\n", counts.RowsIn)
	fmt.Printf("Columns pruned:  %d\n", counts.ColumnsPruned)
	fmt.Printf("Sentinel cells:  %d\n", counts.SentinelCells)
	fmt.Printf("Expired removed: %d\n", counts.RowsExpired)
	fmt.Println()
	fmt.Println("Patient groups:")
	fmt.Printf("  %-10s %8d\n", "patients", counts.Dedup.Patients)
	fmt.Printf("  %-10s %8d\n", "singleton", counts.Dedup.Singletons)
	for _, b := range dedup.AllBuckets {
		fmt.Printf("  %-10s %8d groups\n", "readmit "+b.String(), counts.Dedup.Groups[b])
	}
	fmt.Printf("  %-10s %8d rows collapsed\n", "total", counts.Dedup.RowsRemoved-counts.Dedup.RowsInserted)
	fmt.Println()
	fmt.Printf("Cells capped:    %d (cap %d)\n", counts.CellsCapped, cfg.Cap)
	fmt.Printf("Invalid gender:  %d\n", counts.RowsInvalidGender)
	fmt.Printf("Rows out:        %d\n", counts.RowsOut)
	return nil
}
