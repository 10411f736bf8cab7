package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/readmitprep/internal/config"
	"github.com/gyeh/readmitprep/internal/exitcode"
	"github.com/gyeh/readmitprep/internal/pipeline"
)

var (
	cfg        = config.Defaults()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "readmitprep",
	Short: "Diabetes encounter table → modeling-ready readmission dataset",
	Long: "Cleans the Diabetes 130-US hospitals encounter table for 30-day readmission modeling: " +
		"prunes columns, normalizes values, recodes diagnoses and resolves one record per patient.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (input, output, parquet_output, seed, cap)")
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("READMITPREP_DB_URL"), "Postgres connection string (or set READMITPREP_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

// addRunFlags binds the flags shared by commands that execute the pipeline.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.InputPath, "in", config.DefaultInputPath, "Path to the raw encounter CSV")
	f.StringVar(&cfg.OutputPath, "out", config.DefaultOutputPath, "Path of the cleaned CSV")
	f.StringVar(&cfg.ParquetPath, "parquet-out", "", "Also export the cleaned table as Parquet")
	f.Uint32Var(&cfg.Seed, "seed", cfg.Seed, "Seed for reproducible duplicate resolution")
	f.IntVar(&cfg.Cap, "cap", cfg.Cap, "Maximum kept value for capped count columns")
}

// loadConfig merges the YAML file, if any, underneath explicitly set flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return nil
	}
	flagged := cfg
	if err := cfg.LoadFromFile(configPath); err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("in") {
		cfg.InputPath = flagged.InputPath
	}
	if f.Changed("out") {
		cfg.OutputPath = flagged.OutputPath
	}
	if f.Changed("parquet-out") {
		cfg.ParquetPath = flagged.ParquetPath
	}
	if f.Changed("seed") {
		cfg.Seed = flagged.Seed
	}
	if f.Changed("cap") {
		cfg.Cap = flagged.Cap
	}
	return nil
}

// exitFor logs a pipeline failure and exits with the code for its phase.
func exitFor(log zerolog.Logger, err error) {
	var pe *pipeline.PipelineError
	if !errors.As(err, &pe) {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitcode.TransformError)
	}
	log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("run failed")
	switch pe.Phase {
	case pipeline.PhaseLoad, pipeline.PhaseValidate:
		os.Exit(exitcode.ValidationError)
	case pipeline.PhaseWrite, pipeline.PhaseExport:
		os.Exit(exitcode.WriteError)
	case pipeline.PhasePublish:
		os.Exit(exitcode.CopyError)
	default:
		os.Exit(exitcode.TransformError)
	}
}
