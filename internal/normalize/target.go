package normalize

import (
	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

var (
	positive = model.TargetPositive
	negative = model.TargetNegative
)

// RecodeTarget maps a raw readmitted label to "1" for readmission within
// 30 days and "0" for anything else, including missing.
func RecodeTarget(v *string) *string {
	if v != nil && *v == model.ReadmittedWithin30 {
		return &positive
	}
	return &negative
}

// RecodeTargetColumn binarizes the readmitted column in place.
func RecodeTargetColumn(t *table.Table) {
	t.MapColumn(model.ColReadmitted, RecodeTarget)
}

// IsPositive reports whether a recoded target cell is 1.
func IsPositive(v *string) bool {
	return v != nil && *v == model.TargetPositive
}
