package schema

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validDataset() Dataset {
	return Dataset{
		Name: "d",
		File: "d.csv",
		Columns: []ColumnRule{
			{Raw: "Entity", Canonical: "entity", Type: TypeText, Required: true},
			{Raw: "Year", Canonical: "year", Type: TypeYear, Required: true},
			{Raw: "Value", Canonical: "value", Type: TypeFloat, Null: SentinelToNull, Sentinels: []string{"NaN"}},
		},
		Key: []string{"entity", "year"},
	}
}

/*
TestNewRegistry_Validation covers the startup checks: every declaration
defect must surface as *SchemaDefinitionError before any data is touched.
*/
func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Dataset)
		wantErr string // substring of the error detail; empty means valid
	}{
		{
			name:   "valid",
			mutate: func(d *Dataset) {},
		},
		{
			name:    "empty_name",
			mutate:  func(d *Dataset) { d.Name = "" },
			wantErr: "name must not be empty",
		},
		{
			name:    "no_columns",
			mutate:  func(d *Dataset) { d.Columns = nil },
			wantErr: "no column rules",
		},
		{
			name: "duplicate_canonical",
			mutate: func(d *Dataset) {
				d.Columns = append(d.Columns, ColumnRule{Raw: "Value 2", Canonical: "value", Type: TypeFloat})
			},
			wantErr: "duplicate canonical",
		},
		{
			name: "required_without_type",
			mutate: func(d *Dataset) {
				d.Columns[0].Type = ""
			},
			wantErr: "no declared type",
		},
		{
			name: "unknown_type",
			mutate: func(d *Dataset) {
				d.Columns[2].Type = "decimal"
			},
			wantErr: "unknown type",
		},
		{
			name: "sentinel_policy_without_sentinels",
			mutate: func(d *Dataset) {
				d.Columns[2].Sentinels = nil
			},
			wantErr: "sentinel policy without sentinels",
		},
		{
			name:    "no_key",
			mutate:  func(d *Dataset) { d.Key = nil },
			wantErr: "no identity-key",
		},
		{
			name:    "key_not_declared",
			mutate:  func(d *Dataset) { d.Key = []string{"entity", "date"} },
			wantErr: "identity-key column",
		},
		{
			name: "derived_collides_with_source",
			mutate: func(d *Dataset) {
				d.Derived = []DerivedSpec{{Name: "value", Op: OpSum, Sources: []string{"value"}}}
			},
			wantErr: "collides",
		},
		{
			name: "derived_reads_undeclared_column",
			mutate: func(d *Dataset) {
				d.Derived = []DerivedSpec{{Name: "total", Op: OpSum, Sources: []string{"ghost"}}}
			},
			wantErr: "undeclared column",
		},
		{
			name: "derived_declared_twice",
			mutate: func(d *Dataset) {
				d.Derived = []DerivedSpec{
					{Name: "total", Op: OpSum, Sources: []string{"value"}},
					{Name: "total", Op: OpSum, Sources: []string{"value"}},
				}
			},
			wantErr: "declared twice",
		},
		{
			name: "derived_may_read_earlier_derived",
			mutate: func(d *Dataset) {
				d.Derived = []DerivedSpec{
					{Name: "net", Op: OpDifference, Minuend: "value", Subtrahend: "value"},
					{Name: "exporter", Op: OpFlagPositive, Operand: "net"},
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validDataset()
			tc.mutate(&d)
			_, err := NewRegistry(d)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("NewRegistry: unexpected error: %v", err)
				}
				return
			}
			var se *SchemaDefinitionError
			if !errors.As(err, &se) {
				t.Fatalf("NewRegistry: got %v, want *SchemaDefinitionError", err)
			}
			if !strings.Contains(se.Detail, tc.wantErr) {
				t.Fatalf("error detail %q does not contain %q", se.Detail, tc.wantErr)
			}
		})
	}
}

func TestNewRegistry_DuplicateDataset(t *testing.T) {
	_, err := NewRegistry(validDataset(), validDataset())
	var se *SchemaDefinitionError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *SchemaDefinitionError", err)
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r, err := NewRegistry(validDataset())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	_, err = r.Lookup("nope")
	var ue *UnknownDatasetError
	if !errors.As(err, &ue) {
		t.Fatalf("Lookup: got %v, want *UnknownDatasetError", err)
	}
	if ue.Name != "nope" {
		t.Fatalf("error names %q, want %q", ue.Name, "nope")
	}
}

func TestMaxYear(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := MaxYear(now); got != 2027 {
		t.Fatalf("MaxYear = %d, want 2027", got)
	}
}
