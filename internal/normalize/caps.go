package normalize

import (
	"strconv"

	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

// CapValue returns a cell mapper that replaces numeric values above limit
// with limit. Values at or below limit, missing and non-numeric cells are kept.
func CapValue(limit int) func(*string) *string {
	capped := strconv.Itoa(limit)
	return func(v *string) *string {
		if x, ok := table.Number(v); ok && x > float64(limit) {
			return &capped
		}
		return v
	}
}

// CapOutliers clips time_in_hospital, number_inpatient and number_diagnoses
// to limit and returns the number of cells changed.
func CapOutliers(t *table.Table, limit int) int64 {
	capFn := CapValue(limit)
	var n int64
	for _, col := range model.CappedColumns {
		t.MapColumn(col, func(v *string) *string {
			out := capFn(v)
			if out != v {
				n++
			}
			return out
		})
	}
	return n
}
