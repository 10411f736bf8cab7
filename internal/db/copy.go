package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

// EncounterColumns is the COPY column order of readmit.clean_encounters.
var EncounterColumns = []string{"run_id", "row_number", "patient_nbr", "readmitted", "record"}

// TableSource implements pgx.CopyFromSource over the rows of a cleaned
// table. Each row is stored with its patient id and target as columns and
// the full record as a JSON object.
type TableSource struct {
	runID   uuid.UUID
	t       *table.Table
	patient int
	target  int
	pos     int
	err     error
}

// NewTableSource creates a CopyFromSource over t tagged with runID.
func NewTableSource(runID uuid.UUID, t *table.Table) (*TableSource, error) {
	if miss := t.Missing(model.ColPatientNbr, model.ColReadmitted); len(miss) > 0 {
		return nil, fmt.Errorf("table source: missing columns %v", miss)
	}
	return &TableSource{
		runID:   runID,
		t:       t,
		patient: t.MustIndex(model.ColPatientNbr),
		target:  t.MustIndex(model.ColReadmitted),
		pos:     -1,
	}, nil
}

// Next advances to the next row. Returns false after the last row.
func (s *TableSource) Next() bool {
	s.pos++
	return s.pos < s.t.Len()
}

// Values returns the current row's values in COPY column order.
func (s *TableSource) Values() ([]any, error) {
	row := s.t.Rows[s.pos]

	record := make(map[string]*string, len(s.t.Columns))
	for i, c := range s.t.Columns {
		record[c] = row[i]
	}
	payload, err := json.Marshal(record)
	if err != nil {
		s.err = fmt.Errorf("encode row %d: %w", s.pos+1, err)
		return nil, s.err
	}

	readmitted, err := strconv.ParseInt(table.Value(row[s.target]), 10, 16)
	if err != nil || (readmitted != 0 && readmitted != 1) {
		s.err = fmt.Errorf("row %d: readmitted %q is not binary", s.pos+1, table.Value(row[s.target]))
		return nil, s.err
	}

	return []any{s.runID, int64(s.pos + 1), row[s.patient], int16(readmitted), payload}, nil
}

// Err returns any error encountered during iteration.
func (s *TableSource) Err() error {
	return s.err
}

// Compile-time check that TableSource satisfies the interface.
var _ pgx.CopyFromSource = (*TableSource)(nil)
