package table

import "testing"

func sample() *Table {
	return New(
		[]string{"id", "a", "b"},
		[]Row{
			{Str("1"), Str("x"), nil},
			{Str("2"), Str("y"), Str("7")},
			{Str("3"), nil, Str("12")},
		},
	)
}

func TestDropColumns(t *testing.T) {
	tb := sample()
	n := tb.DropColumns("a", "nope")
	if n != 1 {
		t.Fatalf("expected 1 column dropped, got %d", n)
	}
	if len(tb.Columns) != 2 || tb.Columns[0] != "id" || tb.Columns[1] != "b" {
		t.Fatalf("unexpected columns: %v", tb.Columns)
	}
	for _, row := range tb.Rows {
		if len(row) != 2 {
			t.Fatalf("row width %d after drop", len(row))
		}
	}
	if i, ok := tb.Index("b"); !ok || i != 1 {
		t.Errorf("index of b = %d, %v", i, ok)
	}
	if _, ok := tb.Index("a"); ok {
		t.Error("dropped column still indexed")
	}
}

func TestMapColumnKeepsMissing(t *testing.T) {
	tb := sample()
	ok := tb.MapColumn("b", func(v *string) *string {
		if v == nil {
			return nil
		}
		return Str("<" + *v + ">")
	})
	if !ok {
		t.Fatal("MapColumn returned false for existing column")
	}
	if tb.Rows[0][2] != nil {
		t.Errorf("missing cell should stay missing, got %q", *tb.Rows[0][2])
	}
	if Value(tb.Rows[1][2]) != "<7>" {
		t.Errorf("unexpected mapped value %q", Value(tb.Rows[1][2]))
	}
	if tb.MapColumn("nope", func(v *string) *string { return v }) {
		t.Error("MapColumn on unknown column should return false")
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	tb := sample()
	removed := tb.Filter(func(r Row) bool { return Value(r[0]) != "2" })
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if Value(tb.Rows[0][0]) != "1" || Value(tb.Rows[1][0]) != "3" {
		t.Errorf("order not preserved: %q, %q", Value(tb.Rows[0][0]), Value(tb.Rows[1][0]))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tb := sample()
	c := tb.Clone()
	c.Rows[0][1] = Str("changed")
	c.DropColumns("id")
	if Value(tb.Rows[0][1]) != "x" {
		t.Error("clone shares row storage with original")
	}
	if len(tb.Columns) != 3 {
		t.Error("clone shares header with original")
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   *string
		want float64
		ok   bool
	}{
		{Str("10"), 10, true},
		{Str(" 250.5 "), 250.5, true},
		{Str("V57"), 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := Number(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("Number(%q) = %v, %v; want %v, %v", Value(c.in), got, ok, c.want, c.ok)
		}
	}
}

func TestMissing(t *testing.T) {
	tb := sample()
	miss := tb.Missing("id", "zz", "b")
	if len(miss) != 1 || miss[0] != "zz" {
		t.Errorf("unexpected missing columns: %v", miss)
	}
}
