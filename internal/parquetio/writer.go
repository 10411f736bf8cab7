package parquetio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/readmitprep/internal/table"
)

const writeBatchSize = 10_000

// headerKey is the key/value metadata entry holding the table header as a
// JSON array, so readers can restore the column order.
const headerKey = "readmitprep.columns"

// SchemaFor builds a flat schema with one optional UTF-8 string column per
// table column. Parquet orders group fields by name; the header order is
// kept separately under headerKey.
func SchemaFor(columns []string) *parquet.Schema {
	group := make(parquet.Group, len(columns))
	for _, c := range columns {
		group[c] = parquet.Optional(parquet.String())
	}
	return parquet.NewSchema("encounter", group)
}

// TableWriter writes table rows to a Parquet file.
type TableWriter struct {
	file   *os.File
	writer *parquet.Writer
	leaves []int // table column index for each leaf column
	batch  []parquet.Row
	count  int
}

// NewTableWriter creates path and prepares a writer for rows with the given
// header.
func NewTableWriter(path string, columns []string) (*TableWriter, error) {
	schema := SchemaFor(columns)

	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		pos[c] = i
	}
	leaves := make([]int, 0, len(columns))
	for _, leaf := range schema.Columns() {
		leaves = append(leaves, pos[leaf[0]])
	}

	header, err := json.Marshal(columns)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}
	writer := parquet.NewWriter(file,
		schema,
		parquet.Compression(&parquet.Snappy),
		parquet.CreatedBy("readmitprep", "1.0", ""),
		parquet.KeyValueMetadata(headerKey, string(header)),
	)
	return &TableWriter{file: file, writer: writer, leaves: leaves}, nil
}

// Write buffers one row, flushing a batch when full.
func (w *TableWriter) Write(r table.Row) error {
	row := make(parquet.Row, len(w.leaves))
	for leaf, col := range w.leaves {
		if v := r[col]; v != nil {
			row[leaf] = parquet.ByteArrayValue([]byte(*v)).Level(0, 1, leaf)
		} else {
			row[leaf] = parquet.NullValue().Level(0, 0, leaf)
		}
	}
	w.batch = append(w.batch, row)
	if len(w.batch) >= writeBatchSize {
		return w.flush()
	}
	return nil
}

func (w *TableWriter) flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	n, err := w.writer.WriteRows(w.batch)
	w.count += n
	w.batch = w.batch[:0]
	if err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	return nil
}

// Close flushes pending rows and the footer, then closes the file.
func (w *TableWriter) Close() error {
	if err := w.flush(); err != nil {
		w.file.Close()
		return err
	}
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the number of rows written so far.
func (w *TableWriter) Count() int { return w.count }

// WriteTable exports every row of t to path.
func WriteTable(path string, t *table.Table) (int, error) {
	w, err := NewTableWriter(path, t.Columns)
	if err != nil {
		return 0, err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			w.Close()
			return w.Count(), err
		}
	}
	if err := w.Close(); err != nil {
		return w.Count(), err
	}
	return w.Count(), nil
}
