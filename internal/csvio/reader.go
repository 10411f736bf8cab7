package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gyeh/readmitprep/internal/model"
	"github.com/gyeh/readmitprep/internal/table"
)

const readBufferSize = 256 * 1024

// Read loads a delimited file whose first record is the header. Empty
// fields load as missing; all other text, including the "?" sentinel, is
// kept verbatim for the normalizer.
func Read(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Decode reads a table from r.
func Decode(r io.Reader) (*table.Table, error) {
	br := bufio.NewReaderSize(r, readBufferSize)

	// Skip UTF-8 BOM if present
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = 0 // every record must match the header width

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []table.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(rows)+1, err)
		}
		row := make(table.Row, len(rec))
		for i, v := range rec {
			if v != "" {
				row[i] = &rec[i]
			}
		}
		rows = append(rows, row)
	}
	return table.New(header, rows), nil
}

// ValidateSchema checks that every column the pipeline reads by name is
// present.
func ValidateSchema(t *table.Table) error {
	if miss := t.Missing(model.RequiredColumns()...); len(miss) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(miss, ", "))
	}
	return nil
}
