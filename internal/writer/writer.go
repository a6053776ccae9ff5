// Package writer serializes cleaned datasets to delimited files. Nulls are
// written as empty fields (distinct from the textual token "null") and
// columns appear in canonical declaration order with the metadata columns
// trailing.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"energyetl/pkg/records"
)

// WriteError reports a destination that could not be created or written.
// It is dataset-scoped: the pipeline logs it and continues with the
// remaining datasets.
type WriteError struct {
	Dataset string
	Path    string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write dataset %q to %s: %v", e.Dataset, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WriteCSV writes rows to path with a header row in the given column order.
func WriteCSV(dataset, path string, columns []string, rows []records.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Dataset: dataset, Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return &WriteError{Dataset: dataset, Path: path, Err: err}
	}
	cells := make([]string, len(columns))
	for _, rec := range rows {
		for i, col := range columns {
			cells[i] = formatValue(rec[col])
		}
		if err := w.Write(cells); err != nil {
			return &WriteError{Dataset: dataset, Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &WriteError{Dataset: dataset, Path: path, Err: err}
	}
	return nil
}

// formatValue renders one typed value for delimited output. The mapping is
// fixed so reruns against unchanged inputs are byte-identical.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
