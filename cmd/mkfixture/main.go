// mkfixture creates a small representative encounter fixture from the full dataset.
// Whole patient groups are kept so every dedup bucket stays exercised.
// Usage: go run ./cmd/mkfixture --in data/diabetic_data.csv --out testdata/diabetic_small.csv --rows 500
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gyeh/readmitprep/internal/csvio"
	"github.com/gyeh/readmitprep/internal/dedup"
	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/parquetio"
	"github.com/gyeh/readmitprep/internal/table"
)

func main() {
	in := flag.String("in", "data/diabetic_data.csv", "input CSV")
	out := flag.String("out", "testdata/diabetic_small.csv", "output CSV")
	parquetOut := flag.String("parquet-out", "", "also write the fixture as parquet")
	maxRows := flag.Int("rows", 500, "max rows to output")
	checkOnly := flag.Bool("check", false, "only print stats, don't write")
	flag.Parse()

	t, err := csvio.Read(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}
	groups, unkeyed, err := dedup.Partition(t)
	if err != nil {
		fmt.Fprintf(os.Stderr, "partition: %v\n", err)
		os.Exit(1)
	}
	target := t.MustIndex(model.ColReadmitted)

	type bucket struct {
		name   string
		groups []*dedup.Group
		want   int
	}
	buckets := []*bucket{
		{name: "one", want: 15},
		{name: "many", want: 15},
		{name: "none", want: 15},
		{name: "singleton", want: 0},
	}
	bucketMap := make(map[string]*bucket)
	for _, b := range buckets {
		bucketMap[b.name] = b
	}

	// Partition counts recoded targets; the input is raw, so count "<30" here.
	for _, g := range groups {
		name := "singleton"
		if len(g.Rows) > 1 {
			readmits := 0
			for _, row := range g.Rows {
				if table.Value(row[target]) == model.ReadmittedWithin30 {
					readmits++
				}
			}
			name = dedup.Classify(readmits).String()
		}
		bucketMap[name].groups = append(bucketMap[name].groups, g)
	}
	fmt.Printf("Scanned %d rows, %d patients, %d without id\n", t.Len(), len(groups), len(unkeyed))

	if *checkOnly {
		for _, b := range buckets {
			rows := 0
			for _, g := range b.groups {
				rows += len(g.Rows)
			}
			fmt.Printf("  %-10s %8d groups %8d rows\n", b.name, len(b.groups), rows)
		}
		return
	}

	// Merge buckets in priority order, then top up with singletons.
	keep := make(map[string]bool)
	selected := 0
	take := func(g *dedup.Group) bool {
		if selected+len(g.Rows) > *maxRows {
			return false
		}
		keep[g.PatientID] = true
		selected += len(g.Rows)
		return true
	}
	for _, b := range buckets {
		if b.name == "singleton" {
			continue
		}
		taken := 0
		for _, g := range b.groups {
			if taken >= b.want {
				break
			}
			if take(g) {
				taken++
			}
		}
	}
	for _, g := range bucketMap["singleton"].groups {
		if !take(g) {
			break
		}
	}

	patient := t.MustIndex(model.ColPatientNbr)
	t.Filter(func(r table.Row) bool {
		return r[patient] != nil && keep[dedup.PatientKey(*r[patient])]
	})

	if err := csvio.Write(*out, t); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows (%d patients) to %s\n", t.Len(), len(keep), *out)

	if *parquetOut != "" {
		n, err := parquetio.WriteTable(*parquetOut, t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "write parquet: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d rows to %s\n", n, *parquetOut)
	}
}
