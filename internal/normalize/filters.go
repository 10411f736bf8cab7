package normalize

import (
	"fmt"
	"slices"

	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

// DropExpired removes encounters discharged as expired and returns the
// number of rows removed. Missing or non-numeric dispositions are kept.
func DropExpired(t *table.Table) (int64, error) {
	idx, ok := t.Index(model.ColDischargeDisposition)
	if !ok {
		return 0, fmt.Errorf("drop expired: missing column %s", model.ColDischargeDisposition)
	}
	return int64(t.Filter(func(r table.Row) bool {
		v, ok := table.Number(r[idx])
		return !ok || v != model.DispositionExpired
	})), nil
}

// DropInvalidGender removes rows whose gender is not Female or Male,
// including missing, and returns the number removed.
func DropInvalidGender(t *table.Table) (int64, error) {
	idx, ok := t.Index(model.ColGender)
	if !ok {
		return 0, fmt.Errorf("drop invalid gender: missing column %s", model.ColGender)
	}
	return int64(t.Filter(func(r table.Row) bool {
		return r[idx] != nil && slices.Contains(model.RecognizedGenders, *r[idx])
	})), nil
}
