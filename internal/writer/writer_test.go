package writer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"energyetl/pkg/records"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	columns := []string{"entity", "year", "value", "flagged", "seen"}
	rows := []records.Record{
		{"entity": "Germany", "year": 1990, "value": 1018789952.0, "flagged": true,
			"seen": time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
		{"entity": "Africa", "year": 1990, "value": nil, "flagged": false, "seen": nil},
	}

	if err := WriteCSV("d", path, columns, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "entity,year,value,flagged,seen\n" +
		"Germany,1990,1018789952,true,2024-02-05T00:00:00Z\n" +
		"Africa,1990,,false,\n"
	if string(b) != want {
		t.Fatalf("output:\n%q\nwant:\n%q", b, want)
	}
}

// Floats keep their shortest round-trip form; trailing zeros are not
// invented and precision is not lost.
func TestFormatValue_Floats(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{68.8, "68.8"},
		{19.91, "19.91"},
		{0, "0"},
		{-30, "-30"},
	}
	for _, tc := range tests {
		if got := formatValue(tc.v); got != tc.want {
			t.Errorf("formatValue(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestWriteCSV_WriteError(t *testing.T) {
	err := WriteCSV("d", filepath.Join(t.TempDir(), "missing", "out.csv"), []string{"a"}, nil)
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("got %v, want *WriteError", err)
	}
	if we.Dataset != "d" || we.Unwrap() == nil {
		t.Fatalf("error = %+v", we)
	}
}
