package normalize

import (
	"testing"

	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

func TestRecodeTarget(t *testing.T) {
	cases := []struct {
		in   *string
		want string
	}{
		{table.Str("<30"), "1"},
		{table.Str(">30"), "0"},
		{table.Str("NO"), "0"},
		{table.Str("garbage"), "0"},
		{nil, "0"},
	}
	for _, c := range cases {
		if got := table.Value(RecodeTarget(c.in)); got != c.want {
			t.Errorf("RecodeTarget(%q) = %q, want %q", table.Value(c.in), got, c.want)
		}
	}
}

func TestNormalizeMissingTable(t *testing.T) {
	tb := table.New(
		[]string{"race", "weight", "diag_1"},
		[]table.Row{
			{table.Str("?"), table.Str("?"), table.Str("250")},
			{table.Str("Caucasian"), table.Str("[75-100)"), table.Str("?")},
		},
	)
	n := NormalizeMissingTable(tb)
	if n != 3 {
		t.Errorf("expected 3 cells converted, got %d", n)
	}
	if tb.Rows[0][0] != nil || tb.Rows[0][1] != nil || tb.Rows[1][2] != nil {
		t.Error("sentinel cells not converted to missing")
	}
	if table.Value(tb.Rows[1][1]) != "[75-100)" {
		t.Errorf("non-sentinel cell modified: %q", table.Value(tb.Rows[1][1]))
	}
}

func TestPruneColumns(t *testing.T) {
	tb := table.New(
		[]string{"encounter_id", "patient_nbr", "weight", "payer_code", "medical_specialty", "race"},
		[]table.Row{{table.Str("1"), table.Str("2"), nil, nil, nil, table.Str("AA")}},
	)
	if n := PruneColumns(tb); n != 4 {
		t.Fatalf("expected 4 columns pruned, got %d", n)
	}
	if len(tb.Columns) != 2 || tb.Columns[0] != "patient_nbr" || tb.Columns[1] != "race" {
		t.Errorf("unexpected remaining columns %v", tb.Columns)
	}
	if tb.Len() != 1 {
		t.Errorf("pruning changed row count to %d", tb.Len())
	}
}

func TestDropExpired(t *testing.T) {
	tb := table.New(
		[]string{model.ColDischargeDisposition},
		[]table.Row{{table.Str("1")}, {table.Str("11")}, {table.Str("3")}, {table.Str("11")}, {nil}},
	)
	n, err := DropExpired(tb)
	if err != nil {
		t.Fatalf("DropExpired: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows removed, got %d", n)
	}
	for _, r := range tb.Rows {
		if table.Value(r[0]) == "11" {
			t.Error("expired row survived")
		}
	}
	if tb.Len() != 3 {
		t.Errorf("expected 3 rows left, got %d", tb.Len())
	}
}

func TestCapOutliers(t *testing.T) {
	tb := table.New(
		[]string{model.ColTimeInHospital, model.ColNumberInpatient, model.ColNumberDiagnoses, "num_medications"},
		[]table.Row{
			{table.Str("10"), table.Str("11"), table.Str("16"), table.Str("40")},
			{table.Str("3"), table.Str("0"), nil, table.Str("12")},
		},
	)
	n := CapOutliers(tb, model.DefaultCap)
	if n != 2 {
		t.Errorf("expected 2 cells capped, got %d", n)
	}
	want := [][]string{{"10", "10", "10", "40"}, {"3", "0", "", "12"}}
	for r, row := range tb.Rows {
		for c, v := range row {
			if table.Value(v) != want[r][c] {
				t.Errorf("row %d col %s = %q, want %q", r, tb.Columns[c], table.Value(v), want[r][c])
			}
		}
	}
}

func TestDropInvalidGender(t *testing.T) {
	tb := table.New(
		[]string{model.ColGender},
		[]table.Row{{table.Str("Female")}, {table.Str("Unknown/Invalid")}, {table.Str("Male")}, {nil}, {table.Str("male")}},
	)
	n, err := DropInvalidGender(tb)
	if err != nil {
		t.Fatalf("DropInvalidGender: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows removed, got %d", n)
	}
	for _, r := range tb.Rows {
		g := table.Value(r[0])
		if g != "Female" && g != "Male" {
			t.Errorf("unexpected gender %q survived", g)
		}
	}
}

func TestFiltersMissingColumn(t *testing.T) {
	tb := table.New([]string{model.ColPatientNbr}, []table.Row{{table.Str("1")}})
	if _, err := DropExpired(tb); err == nil {
		t.Error("DropExpired: expected error for missing disposition column")
	}
	if _, err := DropInvalidGender(tb); err == nil {
		t.Error("DropInvalidGender: expected error for missing gender column")
	}
	if tb.Len() != 1 {
		t.Errorf("failed filter changed row count to %d", tb.Len())
	}
}
