package parquetio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/readmitprep/internal/table"
)

const readBatchSize = 1024

// ReadTable loads a flat string-column Parquet file written by WriteTable.
// Columns come back in the header order recorded at write time; files
// without that metadata come back in schema order.
func ReadTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	var leaves []string
	for _, leaf := range pf.Schema().Columns() {
		leaves = append(leaves, leaf[0])
	}
	columns, err := headerOrder(pf, leaves)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		pos[c] = i
	}
	// target[leaf] is the table column of each leaf column.
	target := make([]int, len(leaves))
	for leaf, name := range leaves {
		target[leaf] = pos[name]
	}

	reader := parquet.NewReader(pf)
	defer reader.Close()

	rows := make([]table.Row, 0, pf.NumRows())
	buf := make([]parquet.Row, readBatchSize)
	for {
		n, readErr := reader.ReadRows(buf)
		for _, pr := range buf[:n] {
			row := make(table.Row, len(columns))
			for _, v := range pr {
				if !v.IsNull() {
					s := string(v.ByteArray())
					row[target[v.Column()]] = &s
				}
			}
			rows = append(rows, row)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read parquet rows: %w", readErr)
		}
	}
	return table.New(columns, rows), nil
}

// headerOrder returns the recorded header when it names exactly the leaf
// columns, otherwise the leaves themselves.
func headerOrder(pf *parquet.File, leaves []string) ([]string, error) {
	raw, ok := pf.Lookup(headerKey)
	if !ok {
		return leaves, nil
	}
	var header []string
	if err := json.Unmarshal([]byte(raw), &header); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", headerKey, err)
	}
	if len(header) != len(leaves) {
		return nil, fmt.Errorf("%s metadata has %d columns, schema has %d", headerKey, len(header), len(leaves))
	}
	known := make(map[string]bool, len(leaves))
	for _, l := range leaves {
		known[l] = true
	}
	for _, h := range header {
		if !known[h] {
			return nil, fmt.Errorf("%s metadata names unknown column %q", headerKey, h)
		}
	}
	return header, nil
}
