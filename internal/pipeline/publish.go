package pipeline

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/readmitprep/internal/db"
	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

// Publish copies a cleaned table into Postgres and fills the publish fields
// of the summary.
func Publish(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, s *model.RunSummary, t *table.Table) error {
	start := time.Now()
	n, err := db.Publish(ctx, pool, log, s, t)
	if err != nil {
		return &PipelineError{Phase: PhasePublish, Err: err}
	}
	s.RowsPublished = n
	s.DurationPublish = time.Since(start)
	return nil
}
