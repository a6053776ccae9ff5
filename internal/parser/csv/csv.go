// Package csv reads one delimited source table into memory: a header row
// plus string cells. The five inputs are modest (the largest is ~30k rows),
// so the whole-table read keeps the pipeline simple; cells stay raw strings
// until the coercion stage applies the declared types.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Options configures the reader. All fields are optional; sensible defaults
// are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing ASCII spaces from each cell.
	TrimSpace bool
}

// Table is a fully read source table.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadFile reads a delimited file with a header row.
func ReadFile(path string, opt Options) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	t, err := Read(f, opt)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read reads a delimited stream with a header row.
func Read(r io.Reader, opt Options) (Table, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1 // width is enforced against the header below
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	header = StripHeaderBOM(header)
	if opt.TrimSpace {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read row: %w", err)
		}
		row := make([]string, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = rec[i]
				if opt.TrimSpace {
					row[i] = strings.TrimSpace(row[i])
				}
			}
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}, nil
}
