package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/readmitprep/internal/dedup"
	"github.com/gyeh/readmitprep/internal/logging"
	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/normalize"
	"github.com/gyeh/readmitprep/internal/sampling"
	"github.com/gyeh/readmitprep/internal/table"
)

// Options controls the in-memory transformation.
type Options struct {
	Seed uint32
	Cap  int
	// Pick overrides the seeded picker used by the deduplicator.
	Pick sampling.Picker
}

// DefaultOptions uses the default seed and cap.
func DefaultOptions() Options {
	return Options{Seed: model.DefaultSeed, Cap: model.DefaultCap}
}

// StageCounts holds what each transformation stage changed.
type StageCounts struct {
	RowsIn            int64
	ColumnsPruned     int
	SentinelCells     int64
	RowsExpired       int64
	Dedup             *dedup.Result
	CellsCapped       int64
	RowsInvalidGender int64
	RowsOut           int64
}

type stage struct {
	name string
	run  func(t *table.Table) (int64, error)
}

// Transform runs the cleaning stages over t in place, in order: prune,
// recode target, normalize missing, recategorize diagnoses, drop expired,
// deduplicate patients, cap outliers, drop invalid gender.
func Transform(log zerolog.Logger, t *table.Table, opts Options) (*StageCounts, error) {
	pick := opts.Pick
	if pick == nil {
		pick = sampling.Seeded(opts.Seed)
	}
	if miss := t.Missing(model.RequiredColumns()...); len(miss) > 0 {
		return nil, fmt.Errorf("transform: missing required columns: %s", strings.Join(miss, ", "))
	}
	c := &StageCounts{RowsIn: int64(t.Len())}

	stages := []stage{
		{"prune", func(t *table.Table) (int64, error) {
			c.ColumnsPruned = normalize.PruneColumns(t)
			return int64(c.ColumnsPruned), nil
		}},
		{"recode_target", func(t *table.Table) (int64, error) {
			normalize.RecodeTargetColumn(t)
			return int64(t.Len()), nil
		}},
		{"normalize_missing", func(t *table.Table) (int64, error) {
			c.SentinelCells = normalize.NormalizeMissingTable(t)
			return c.SentinelCells, nil
		}},
		{"recategorize_diagnoses", func(t *table.Table) (int64, error) {
			normalize.RecategorizeDiagnostics(t)
			return int64(t.Len()), nil
		}},
		{"drop_expired", func(t *table.Table) (int64, error) {
			n, err := normalize.DropExpired(t)
			c.RowsExpired = n
			return n, err
		}},
		{"dedup", func(t *table.Table) (int64, error) {
			res, err := dedup.Deduplicate(t, pick)
			if err != nil {
				return 0, err
			}
			c.Dedup = res
			log.Info().
				Int64("patients", res.Patients).
				Int64("singletons", res.Singletons).
				Int64("groups_readmit_one", res.Groups[dedup.ReadmitOne]).
				Int64("groups_readmit_many", res.Groups[dedup.ReadmitMany]).
				Int64("groups_readmit_none", res.Groups[dedup.ReadmitNone]).
				Msg("patient groups resolved")
			return res.RowsRemoved - res.RowsInserted, nil
		}},
		{"cap_outliers", func(t *table.Table) (int64, error) {
			c.CellsCapped = normalize.CapOutliers(t, opts.Cap)
			return c.CellsCapped, nil
		}},
		{"drop_invalid_gender", func(t *table.Table) (int64, error) {
			n, err := normalize.DropInvalidGender(t)
			c.RowsInvalidGender = n
			return n, err
		}},
	}

	for _, s := range stages {
		start := time.Now()
		before := t.Len()
		n, err := s.run(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		stageLog := logging.Stage(log, s.name)
		stageLog.Info().
			Int("rows_before", before).
			Int("rows_after", t.Len()).
			Int64("affected", n).
			Dur("duration", time.Since(start)).
			Msg("stage complete")
	}

	c.RowsOut = int64(t.Len())
	return c, nil
}
