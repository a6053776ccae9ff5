package lineage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"energyetl/internal/quality"
)

func TestRenderSummary(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	reports := []DatasetReport{
		{
			Dataset: "co2_emissions",
			Quality: &quality.Record{
				RowsIn: 100, RowsOut: 95,
				RowsRejected: 3, DuplicatesRemoved: 2,
				NullsConverted:   10,
				CoercionFailures: 3, RangeRejections: 3,
			},
			Steps: []Entry{
				{Operation: "normalize_columns", RowsBefore: 100, RowsAfter: 100},
				{Operation: "coerce_types", RowsBefore: 100, RowsAfter: 97},
			},
			Columns:  []string{"entity", "code", "year", "annual_co2_emissions", "data_source"},
			Citation: "Global Carbon Budget (2024)",
		},
		{
			Dataset: "oil_production",
			Failed:  errors.New(`raw column "Mystery" matches no column rule`),
		},
	}

	var b strings.Builder
	if err := renderSummary(&b, "run-1", at, reports); err != nil {
		t.Fatalf("renderSummary: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"DATA CLEANING AND TRANSFORMATION SUMMARY REPORT",
		"Run:       run-1",
		"CO2_EMISSIONS",
		"Rows in:      100",
		"Rows out:     95",
		"(rejected=3 duplicates=2)",
		"Quality flag:      degraded",
		"RangeValidationError",
		"1. normalize_columns: 100 -> 100 rows",
		"Global Carbon Budget (2024)",
		"OIL_PRODUCTION",
		"FAILED:",
		"END OF REPORT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}
