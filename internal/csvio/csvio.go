// Package csvio implements the CSV import/export external collaborator
// (spec.md S1, S6): "first line is a comma-separated header used as column
// names; remaining lines are inserted row by row; unspecified column types
// default to string". encoding/csv is used directly — no CSV library
// appears anywhere in the retrieved example pack, so this one ambient
// concern stays on the standard library rather than reaching for an
// unjustified third-party dependency.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Read parses path's first line as a column-name header and every
// remaining line as one row of string values.
func Read(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csvio: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csvio: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csvio: %s: empty file", path)
	}
	return records[0], records[1:], nil
}

// Write emits header as the first CSV line followed by rows.
func Write(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvio: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csvio: write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("csvio: write rows: %w", err)
	}
	w.Flush()
	return w.Error()
}
