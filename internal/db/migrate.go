package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/readmitprep/internal/sql"
)

const migrationsTable = `
CREATE SCHEMA IF NOT EXISTS readmit;
CREATE TABLE IF NOT EXISTS readmit.schema_migrations (
    name       text PRIMARY KEY,
    applied_at timestamptz NOT NULL DEFAULT now()
)`

// ApplyMigrations runs the embedded SQL migrations in filename order. Each
// file runs in its own transaction and is recorded in
// readmit.schema_migrations, so re-running skips what is already applied.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	entries, err := fs.ReadDir(embedsql.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if _, err := pool.Exec(ctx, migrationsTable); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		data, err := fs.ReadFile(embedsql.Migrations, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		ok, err := applyOne(ctx, pool, name, string(data))
		if err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		if !ok {
			log.Debug().Str("migration", name).Msg("migration already applied")
			continue
		}
		log.Info().Str("migration", name).Msg("applied migration")
		applied++
	}

	log.Info().Int("count", applied).Int("total", len(entries)).Msg("migrations up to date")
	return nil
}

func applyOne(ctx context.Context, pool *pgxpool.Pool, name, ddl string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) // no-op after commit

	tag, err := tx.Exec(ctx,
		"INSERT INTO readmit.schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// AppliedMigration is one row of readmit.schema_migrations.
type AppliedMigration struct {
	Name      string
	AppliedAt time.Time
}

// AppliedMigrations lists recorded migrations in filename order. A database
// that was never migrated has none.
func AppliedMigrations(ctx context.Context, pool *pgxpool.Pool) ([]AppliedMigration, error) {
	var exists bool
	if err := pool.QueryRow(ctx,
		"SELECT to_regclass('readmit.schema_migrations') IS NOT NULL").Scan(&exists); err != nil {
		return nil, fmt.Errorf("check migrations table: %w", err)
	}
	if !exists {
		return nil, nil
	}

	rows, err := pool.Query(ctx,
		"SELECT name, applied_at FROM readmit.schema_migrations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[AppliedMigration])
	if err != nil {
		return nil, fmt.Errorf("scan migrations: %w", err)
	}
	return out, nil
}
