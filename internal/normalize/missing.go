package normalize

import (
	"strings"

	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

// NormalizeMissing returns nil for any cell containing the "?" sentinel.
// Other cells pass through.
func NormalizeMissing(v *string) *string {
	if v == nil || strings.Contains(*v, model.MissingSentinel) {
		return nil
	}
	return v
}

// NormalizeMissingTable applies NormalizeMissing to every cell of every
// column and returns the number of cells converted.
func NormalizeMissingTable(t *table.Table) int64 {
	var n int64
	t.MapAll(func(v *string) *string {
		out := NormalizeMissing(v)
		if out == nil && v != nil {
			n++
		}
		return out
	})
	return n
}
