package db_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/readmitprep/internal/db"
	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

const (
	testPort     = 15433
	testDB       = "readmittest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

func TestMain(m *testing.M) {
	// The embedded server downloads Postgres binaries, so it is opt-in.
	if os.Getenv("READMITPREP_PG_TESTS") != "1" {
		os.Exit(m.Run())
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.Exit(code)
}

// setupDB connects, drops the readmit schema and reapplies migrations.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testDSN == "" {
		t.Skip("set READMITPREP_PG_TESTS=1 to run embedded postgres tests")
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS readmit CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

func cleanedTable() *table.Table {
	return table.New(
		[]string{model.ColPatientNbr, model.ColGender, model.ColDiag1, model.ColReadmitted},
		[]table.Row{
			{table.Str("1001"), table.Str("Female"), table.Str("Diabetes"), table.Str("0")},
			{table.Str("1002"), table.Str("Male"), nil, table.Str("1")},
			{table.Str("1003"), table.Str("Female"), table.Str("Other"), table.Str("1")},
		},
	)
}

func summaryFor(t *table.Table) *model.RunSummary {
	return &model.RunSummary{
		RunID:            uuid.NewString(),
		InputPath:        "testdata/diabetic_sample.csv",
		InputSHA256:      "abc123",
		OutputSHA256:     "def456",
		Seed:             model.DefaultSeed,
		RowsRead:         10,
		RowsWritten:      int64(t.Len()),
		PatientsDistinct: int64(t.Len()),
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	pool := setupDB(t)
	if err := db.ApplyMigrations(context.Background(), pool, zerolog.Nop()); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
	var recorded int
	if err := pool.QueryRow(context.Background(),
		"SELECT count(*) FROM readmit.schema_migrations").Scan(&recorded); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if recorded != 1 {
		t.Errorf("expected 1 recorded migration, got %d", recorded)
	}
}

func TestAppliedMigrations(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	applied, err := db.AppliedMigrations(ctx, pool)
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(applied) != 1 || applied[0].Name != "001_schema.sql" || applied[0].AppliedAt.IsZero() {
		t.Fatalf("unexpected applied migrations %+v", applied)
	}

	if _, err := pool.Exec(ctx, "DROP SCHEMA readmit CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	applied, err = db.AppliedMigrations(ctx, pool)
	if err != nil {
		t.Fatalf("AppliedMigrations on empty database: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("expected no migrations on empty database, got %+v", applied)
	}
}

func TestPublishCopiesEveryRow(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	tb := cleanedTable()
	s := summaryFor(tb)

	n, err := db.Publish(ctx, pool, zerolog.Nop(), s, tb)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows copied, got %d", n)
	}

	runID := uuid.MustParse(s.RunID)
	rows, patients, err := db.CountRunRows(ctx, pool, runID)
	if err != nil {
		t.Fatalf("CountRunRows: %v", err)
	}
	if rows != 3 || patients != 3 {
		t.Errorf("stored rows=%d patients=%d, want 3/3", rows, patients)
	}

	var diag *string
	var readmitted int16
	err = pool.QueryRow(ctx,
		"SELECT record->>'diag_1', readmitted FROM readmit.clean_encounters WHERE run_id = $1 AND patient_nbr = '1002'",
		runID).Scan(&diag, &readmitted)
	if err != nil {
		t.Fatalf("query row: %v", err)
	}
	if diag != nil {
		t.Errorf("missing diag_1 stored as %q, want JSON null", *diag)
	}
	if readmitted != 1 {
		t.Errorf("readmitted = %d, want 1", readmitted)
	}
}

func TestPublishRollsBackOnBadTarget(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	tb := cleanedTable()
	tb.Rows[2][3] = table.Str("<30") // not recoded
	s := summaryFor(tb)

	if _, err := db.Publish(ctx, pool, zerolog.Nop(), s, tb); err == nil {
		t.Fatal("expected publish to fail on a non-binary target")
	}

	var runs int64
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM readmit.pipeline_runs").Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != 0 {
		t.Errorf("failed publish left %d run rows behind", runs)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	tb := cleanedTable()
	s := summaryFor(tb)
	if _, err := db.Publish(ctx, pool, zerolog.Nop(), s, tb); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	runID := uuid.MustParse(s.RunID)
	deleted, err := db.DeleteRun(ctx, pool, runID)
	if err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 run deleted, got %d", deleted)
	}
	rows, _, err := db.CountRunRows(ctx, pool, runID)
	if err != nil {
		t.Fatalf("CountRunRows: %v", err)
	}
	if rows != 0 {
		t.Errorf("expected cascade delete, %d rows remain", rows)
	}
}
