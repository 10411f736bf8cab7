package dedup

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/normalize"
	"github.com/gyeh/readmitprep/internal/sampling"
	"github.com/gyeh/readmitprep/internal/table"
)

// Group is every row sharing one patient id, in table order. PatientID is
// the PatientKey of the shared id.
type Group struct {
	PatientID    string
	Rows         []table.Row
	Readmissions int
}

// Result holds metrics from a deduplication pass.
type Result struct {
	Patients     int64 // distinct patient ids
	Singletons   int64 // patients with one row, passed through
	Ungrouped    int64 // rows with a missing patient id, passed through
	Groups       map[Bucket]int64
	RowsRemoved  int64
	RowsInserted int64 // one representative per multi-row group
}

// columns holds the positions the deduplicator reads.
type columns struct {
	patient, target, stay int
}

func resolveColumns(t *table.Table) (columns, error) {
	if miss := t.Missing(model.ColPatientNbr, model.ColReadmitted, model.ColTimeInHospital); len(miss) > 0 {
		return columns{}, fmt.Errorf("dedup: missing columns %s", strings.Join(miss, ", "))
	}
	return columns{
		patient: t.MustIndex(model.ColPatientNbr),
		target:  t.MustIndex(model.ColReadmitted),
		stay:    t.MustIndex(model.ColTimeInHospital),
	}, nil
}

// Partition groups rows by patient id. Groups are returned in first-seen
// order; rows with a missing patient id are returned separately.
func Partition(t *table.Table) ([]*Group, []table.Row, error) {
	cols, err := resolveColumns(t)
	if err != nil {
		return nil, nil, err
	}
	return partition(t.Rows, cols), ungrouped(t.Rows, cols), nil
}

func partition(rows []table.Row, cols columns) []*Group {
	var groups []*Group
	byID := make(map[string]*Group)
	for _, row := range rows {
		id := row[cols.patient]
		if id == nil {
			continue
		}
		key := PatientKey(*id)
		g, ok := byID[key]
		if !ok {
			g = &Group{PatientID: key}
			byID[key] = g
			groups = append(groups, g)
		}
		g.Rows = append(g.Rows, row)
		if normalize.IsPositive(row[cols.target]) {
			g.Readmissions++
		}
	}
	return groups
}

func ungrouped(rows []table.Row, cols columns) []table.Row {
	var out []table.Row
	for _, row := range rows {
		if row[cols.patient] == nil {
			out = append(out, row)
		}
	}
	return out
}

// representative returns the row kept for a multi-row group. pick is only
// consulted when more than one row is eligible.
func representative(g *Group, b Bucket, cols columns, pick sampling.Picker) table.Row {
	switch b {
	case ReadmitOne:
		for _, row := range g.Rows {
			if normalize.IsPositive(row[cols.target]) {
				return row
			}
		}
	case ReadmitMany:
		tied := longestStays(positives(g.Rows, cols), cols)
		if len(tied) == 1 {
			return tied[0]
		}
		return tied[pick(len(tied))]
	case ReadmitNone:
		return g.Rows[pick(len(g.Rows))]
	}
	panic(fmt.Sprintf("dedup: no representative for patient %s in bucket %s", g.PatientID, b))
}

func positives(rows []table.Row, cols columns) []table.Row {
	var out []table.Row
	for _, row := range rows {
		if normalize.IsPositive(row[cols.target]) {
			out = append(out, row)
		}
	}
	return out
}

// longestStays returns the rows tied at the maximum time_in_hospital, in
// input order. Non-numeric stays rank below every number.
func longestStays(rows []table.Row, cols columns) []table.Row {
	best := math.Inf(-1)
	var tied []table.Row
	for _, row := range rows {
		v, ok := table.Number(row[cols.stay])
		if !ok || math.IsNaN(v) {
			v = math.Inf(-1)
		}
		switch {
		case v > best:
			best = v
			tied = append(tied[:0], row)
		case v == best:
			tied = append(tied, row)
		}
	}
	return tied
}

// Deduplicate collapses every multi-row patient group of t into a single
// representative row. Output order: rows that were not touched (singleton
// patients and rows without a patient id) in their original order, then
// representatives of ReadmitOne, ReadmitMany and ReadmitNone groups, each
// ordered by ascending patient id.
func Deduplicate(t *table.Table, pick sampling.Picker) (*Result, error) {
	cols, err := resolveColumns(t)
	if err != nil {
		return nil, err
	}

	groups := partition(t.Rows, cols)
	res := &Result{
		Patients: int64(len(groups)),
		Groups:   make(map[Bucket]int64, len(AllBuckets)),
	}

	dupes := make(map[string]bool)
	byBucket := make(map[Bucket][]*Group, len(AllBuckets))
	for _, g := range groups {
		if len(g.Rows) == 1 {
			res.Singletons++
			continue
		}
		dupes[g.PatientID] = true
		b := Classify(g.Readmissions)
		byBucket[b] = append(byBucket[b], g)
		res.Groups[b]++
	}

	kept := make([]table.Row, 0, len(groups))
	for _, row := range t.Rows {
		id := row[cols.patient]
		if id == nil {
			res.Ungrouped++
		} else if dupes[PatientKey(*id)] {
			res.RowsRemoved++
			continue
		}
		kept = append(kept, row)
	}

	for _, b := range AllBuckets {
		bucket := byBucket[b]
		slices.SortFunc(bucket, func(x, y *Group) int { return ComparePatientIDs(x.PatientID, y.PatientID) })
		for _, g := range bucket {
			kept = append(kept, representative(g, b, cols, pick))
			res.RowsInserted++
		}
	}

	t.Rows = kept
	return res, nil
}

// PatientKey is the grouping key of a patient id: integer ids in canonical
// decimal form, so "01" and "1" are the same patient, anything else verbatim.
func PatientKey(id string) string {
	if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return id
}

// ComparePatientIDs orders integer ids numerically ahead of any
// non-integer id, which sort lexically.
func ComparePatientIDs(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
