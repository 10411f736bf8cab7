package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/readmitprep/internal/config"
	"github.com/gyeh/readmitprep/internal/csvio"
	"github.com/gyeh/readmitprep/internal/dedup"
	"github.com/gyeh/readmitprep/internal/logging"
	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/normalize"
	"github.com/gyeh/readmitprep/internal/parquetio"
	"github.com/gyeh/readmitprep/internal/table"
)

// Pipeline phases, reported in PipelineError.
const (
	PhaseLoad      = "load"
	PhaseValidate  = "validate"
	PhaseTransform = "transform"
	PhaseWrite     = "write"
	PhaseExport    = "export"
	PhasePublish   = "publish"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// CleanData runs the whole pipeline with the fixed default paths and seed,
// writes the result and returns the final table.
func CleanData() (*table.Table, error) {
	cfg := config.Defaults()
	t, _, err := Run(logging.Setup(cfg.LogFormat), &cfg)
	return t, err
}

// Load reads and validates the input table.
func Load(log zerolog.Logger, path string) (*table.Table, error) {
	start := time.Now()
	t, err := csvio.Read(path)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}
	if err := csvio.ValidateSchema(t); err != nil {
		return nil, &PipelineError{Phase: PhaseValidate, Err: err}
	}
	log.Info().
		Str("file", path).
		Int("rows", t.Len()).
		Int("columns", len(t.Columns)).
		Dur("duration", time.Since(start)).
		Msg("input loaded")
	return t, nil
}

// Plan loads and transforms the input without writing anything.
func Plan(log zerolog.Logger, cfg *config.Config) (*StageCounts, error) {
	t, err := Load(log, cfg.InputPath)
	if err != nil {
		return nil, err
	}
	counts, err := Transform(log, t, Options{Seed: cfg.Seed, Cap: cfg.Cap})
	if err != nil {
		return nil, &PipelineError{Phase: PhaseTransform, Err: err}
	}
	return counts, nil
}

// Run executes load → transform → write (→ optional Parquet export) and
// returns the final table with a run summary.
func Run(log zerolog.Logger, cfg *config.Config) (*table.Table, *model.RunSummary, error) {
	totalStart := time.Now()
	summary := &model.RunSummary{
		RunID:       uuid.NewString(),
		InputPath:   cfg.InputPath,
		OutputPath:  cfg.OutputPath,
		ParquetPath: cfg.ParquetPath,
		Seed:        cfg.Seed,
	}
	log = log.With().Str("run_id", summary.RunID).Logger()

	// Phase 1: Load
	loadStart := time.Now()
	sha, err := normalize.FileHash(cfg.InputPath)
	if err != nil {
		return nil, nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}
	summary.InputSHA256 = sha
	t, err := Load(log, cfg.InputPath)
	if err != nil {
		return nil, nil, err
	}
	summary.DurationLoad = time.Since(loadStart)

	// Phase 2: Transform
	transformStart := time.Now()
	counts, err := Transform(log, t, Options{Seed: cfg.Seed, Cap: cfg.Cap})
	if err != nil {
		return nil, nil, &PipelineError{Phase: PhaseTransform, Err: err}
	}
	summary.DurationTransform = time.Since(transformStart)
	applyCounts(summary, counts)

	// Phase 3: Write
	writeStart := time.Now()
	if err := csvio.Write(cfg.OutputPath, t); err != nil {
		return nil, nil, &PipelineError{Phase: PhaseWrite, Err: err}
	}
	summary.RowsWritten = int64(t.Len())
	if summary.OutputSHA256, err = normalize.FileHash(cfg.OutputPath); err != nil {
		return nil, nil, &PipelineError{Phase: PhaseWrite, Err: err}
	}

	// Phase 4: Parquet export (optional)
	if cfg.ParquetPath != "" {
		n, err := parquetio.WriteTable(cfg.ParquetPath, t)
		if err != nil {
			return nil, nil, &PipelineError{Phase: PhaseExport, Err: err}
		}
		log.Info().Str("file", cfg.ParquetPath).Int("rows", n).Msg("parquet export complete")
	}
	summary.DurationWrite = time.Since(writeStart)
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_expired", summary.RowsExpired).
		Int64("rows_deduplicated", summary.RowsDeduplicated).
		Int64("rows_invalid_gender", summary.RowsInvalidGender).
		Int64("rows_written", summary.RowsWritten).
		Str("output", cfg.OutputPath).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("pipeline complete")

	return t, summary, nil
}

func applyCounts(s *model.RunSummary, c *StageCounts) {
	s.RowsRead = c.RowsIn
	s.ColumnsPruned = c.ColumnsPruned
	s.RowsExpired = c.RowsExpired
	s.RowsInvalidGender = c.RowsInvalidGender
	if c.Dedup != nil {
		s.RowsDeduplicated = c.Dedup.RowsRemoved - c.Dedup.RowsInserted
		s.PatientsDistinct = c.Dedup.Patients
		s.GroupsReadmitOne = c.Dedup.Groups[dedup.ReadmitOne]
		s.GroupsReadmitMany = c.Dedup.Groups[dedup.ReadmitMany]
		s.GroupsReadmitNone = c.Dedup.Groups[dedup.ReadmitNone]
	}
}
