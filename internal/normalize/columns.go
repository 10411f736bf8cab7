package normalize

import (
	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

// PruneColumns drops the encounter id and the high-missingness columns.
// Returns the number of columns removed.
func PruneColumns(t *table.Table) int {
	return t.DropColumns(model.PrunedColumns...)
}
