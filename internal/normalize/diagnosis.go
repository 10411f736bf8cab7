package normalize

import (
	"strconv"
	"strings"

	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

// DiagGroup maps an ICD-9 code to one of the nine diagnostic categories.
// Codes that do not parse as a number (V and E codes, free text) are Other.
func DiagGroup(code string) model.Category {
	x, err := strconv.ParseFloat(strings.TrimSpace(code), 64)
	if err != nil {
		return model.Other
	}
	switch {
	case (x >= 390 && x <= 459) || x == 785:
		return model.Circulatory
	case (x >= 460 && x <= 519) || x == 786:
		return model.Respiratory
	case (x >= 520 && x <= 579) || x == 787:
		return model.Digestive
	case x >= 250 && x < 251:
		return model.Diabetes
	case x >= 800 && x <= 999:
		return model.Injury
	case x >= 710 && x <= 739:
		return model.Musculoskeletal
	case (x >= 580 && x <= 629) || x == 788:
		return model.Genitourinary
	case x >= 140 && x <= 239:
		return model.Neoplasms
	default:
		return model.Other
	}
}

// RecategorizeDiagnosis applies DiagGroup to a present cell and leaves a
// missing cell missing.
func RecategorizeDiagnosis(v *string) *string {
	if v == nil {
		return nil
	}
	c := string(DiagGroup(*v))
	return &c
}

// RecategorizeDiagnostics recodes diag_1, diag_2 and diag_3 in place.
func RecategorizeDiagnostics(t *table.Table) {
	for _, col := range model.DiagnosticColumns {
		t.MapColumn(col, RecategorizeDiagnosis)
	}
}
