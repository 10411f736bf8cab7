package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/readmitprep/internal/model"
	embedsql "github.com/gyeh/readmitprep/internal/sql"
	"github.com/gyeh/readmitprep/internal/table"
)

// Publish records the run and COPY-loads the cleaned table in a single
// transaction. Returns the number of rows copied.
func Publish(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, s *model.RunSummary, t *table.Table) (int64, error) {
	start := time.Now()

	runID, err := uuid.Parse(s.RunID)
	if err != nil {
		return 0, fmt.Errorf("parse run id: %w", err)
	}
	src, err := NewTableSource(runID, t)
	if err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin publish: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if _, err := tx.Exec(ctx, embedsql.InsertRun,
		runID, s.InputPath, s.InputSHA256, s.OutputSHA256, int64(s.Seed), s.RowsRead, s.RowsWritten,
		s.PatientsDistinct, s.GroupsReadmitOne, s.GroupsReadmitMany, s.GroupsReadmitNone,
	); err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"readmit", "clean_encounters"},
		EncounterColumns,
		src,
	)
	if err != nil {
		return 0, fmt.Errorf("copy encounters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit publish: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Str("run_id", s.RunID).
		Int64("rows_copied", copied).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(copied)/dur.Seconds()).
		Msg("publish complete")
	return copied, nil
}

// CountRunRows returns the number of rows and distinct patients stored for a run.
func CountRunRows(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) (rows, patients int64, err error) {
	err = pool.QueryRow(ctx, embedsql.CountRunRows, runID).Scan(&rows, &patients)
	return rows, patients, err
}

// DeleteRun removes a run and, by cascade, its rows.
func DeleteRun(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) (int64, error) {
	tag, err := pool.Exec(ctx, embedsql.DeleteRun, runID)
	if err != nil {
		return 0, fmt.Errorf("delete run: %w", err)
	}
	return tag.RowsAffected(), nil
}
