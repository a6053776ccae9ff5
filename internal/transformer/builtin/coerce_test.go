package builtin

import (
	"errors"
	"testing"
	"time"

	"energyetl/internal/quality"
	"energyetl/internal/schema"
	"energyetl/pkg/records"
)

var nan = []string{"NaN", "nan", "null", "NULL"}

func emissionsDataset() schema.Dataset {
	return schema.Dataset{
		Name: "co2_emissions",
		Columns: []schema.ColumnRule{
			{Raw: "Entity", Canonical: "entity", Type: schema.TypeText, Required: true},
			{Raw: "Code", Canonical: "code", Type: schema.TypeText, Null: schema.EmptyToNull},
			{Raw: "Year", Canonical: "year", Type: schema.TypeYear, Required: true},
			{Raw: "Annual CO₂ emissions", Canonical: "annual_co2_emissions", Type: schema.TypeFloat, Null: schema.SentinelToNull, Sentinels: nan},
		},
		Key: []string{"entity", "year"},
	}
}

func TestCoerce_TypesAndCounters(t *testing.T) {
	q := &quality.Record{}
	c := Coerce{Dataset: emissionsDataset(), MaxYear: 2027, Quality: q}

	out := c.Apply([]records.Record{
		{"entity": "Germany", "code": "DEU", "year": "1990", "annual_co2_emissions": "1018789952"},
	})
	if len(out) != 1 {
		t.Fatalf("rows = %d, want 1", len(out))
	}
	rec := out[0]
	if got, want := rec["year"], 1990; got != want {
		t.Errorf("year = %#v, want %#v", got, want)
	}
	if got, want := rec["annual_co2_emissions"], 1018789952.0; got != want {
		t.Errorf("emissions = %#v, want %#v", got, want)
	}
	if q.RowsRejected != 0 || q.CoercionFailures != 0 {
		t.Errorf("counters moved on clean row: %+v", q)
	}
}

/*
TestCoerce_YearOutOfRange: a pre-instrumental year is a data error. The row
is rejected, both the coercion and range counters move, and the sink sees a
*RangeValidationError naming the bounds.
*/
func TestCoerce_YearOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		year string
	}{
		{"before_min", "1600"},
		{"after_max", "2120"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &quality.Record{}
			var sunk error
			c := Coerce{
				Dataset: emissionsDataset(),
				MaxYear: 2027,
				Quality: q,
				Reject:  func(_ records.Record, err error) { sunk = err },
			}

			out := c.Apply([]records.Record{
				{"entity": "Germany", "code": "DEU", "year": tc.year, "annual_co2_emissions": "1.5"},
			})
			if len(out) != 0 {
				t.Fatalf("row survived with year %s", tc.year)
			}
			if q.RowsRejected != 1 || q.RangeRejections != 1 || q.CoercionFailures != 1 {
				t.Fatalf("counters = %+v", q)
			}
			var re *RangeValidationError
			if !errors.As(sunk, &re) {
				t.Fatalf("sink got %v, want *RangeValidationError", sunk)
			}
			if re.Min != schema.MinYear || re.Max != 2027 {
				t.Fatalf("bounds = [%d, %d]", re.Min, re.Max)
			}
		})
	}
}

func TestCoerce_BadFloatRejected(t *testing.T) {
	q := &quality.Record{}
	c := Coerce{Dataset: emissionsDataset(), MaxYear: 2027, Quality: q}

	out := c.Apply([]records.Record{
		{"entity": "Germany", "code": "DEU", "year": "1990", "annual_co2_emissions": "not-a-number"},
	})
	if len(out) != 0 {
		t.Fatal("row with uncoercible float survived")
	}
	if q.RowsRejected != 1 || q.CoercionFailures != 1 {
		t.Fatalf("counters = %+v", q)
	}
}

// Declared sentinels are not coercion failures: the token passes through
// unchanged for the post-coercion resolver.
func TestCoerce_SentinelPassesThrough(t *testing.T) {
	q := &quality.Record{}
	c := Coerce{Dataset: emissionsDataset(), MaxYear: 2027, Quality: q}

	out := c.Apply([]records.Record{
		{"entity": "Kuwait", "code": "KWT", "year": "1991", "annual_co2_emissions": "NaN"},
	})
	if len(out) != 1 {
		t.Fatal("sentinel row rejected")
	}
	if got := out[0]["annual_co2_emissions"]; got != "NaN" {
		t.Fatalf("sentinel = %#v, want the original token", got)
	}
	if q.CoercionFailures != 0 {
		t.Fatalf("sentinel counted as failure: %+v", q)
	}
}

func TestCoerce_EmptyOptionalBecomesNull(t *testing.T) {
	q := &quality.Record{}
	c := Coerce{Dataset: emissionsDataset(), MaxYear: 2027, Quality: q}

	out := c.Apply([]records.Record{
		{"entity": "Africa", "code": "", "year": "1990", "annual_co2_emissions": ""},
	})
	if len(out) != 1 {
		t.Fatal("row rejected")
	}
	if v := out[0]["annual_co2_emissions"]; v != nil {
		t.Fatalf("empty optional = %#v, want nil", v)
	}
}

func TestCoerce_RequiredMissingRejected(t *testing.T) {
	q := &quality.Record{}
	var sunk error
	c := Coerce{
		Dataset: emissionsDataset(),
		MaxYear: 2027,
		Quality: q,
		Reject:  func(_ records.Record, err error) { sunk = err },
	}

	out := c.Apply([]records.Record{
		{"entity": "", "code": "DEU", "year": "1990", "annual_co2_emissions": "1.5"},
	})
	if len(out) != 0 {
		t.Fatal("row with missing required column survived")
	}
	if q.RequiredMissing != 1 || q.RowsRejected != 1 {
		t.Fatalf("counters = %+v", q)
	}
	var rm *RequiredMissingError
	if !errors.As(sunk, &rm) || rm.Column != "entity" {
		t.Fatalf("sink got %v", sunk)
	}
}

func priceDataset() schema.Dataset {
	return schema.Dataset{
		Name: "nymex_gas_prices",
		Columns: []schema.ColumnRule{
			{Raw: "time", Canonical: "time", Type: schema.TypeTimestamp, Required: true},
			{Raw: "close", Canonical: "close", Type: schema.TypeFloat},
		},
		Key: []string{"time"},
	}
}

/*
TestCoerce_TimestampDegradedRetention: a timestamp that parses under none of
the accepted layouts is retained as its raw token instead of being nulled.
The timestamp is the price series identity key, so nulling it would collapse
distinct observations; retention keeps the row addressable while the counters
and the dataset flag report the degradation.
*/
func TestCoerce_TimestampDegradedRetention(t *testing.T) {
	q := &quality.Record{}
	c := Coerce{Dataset: priceDataset(), MaxYear: 2027, Quality: q}

	out := c.Apply([]records.Record{
		{"time": "2024-02-05T00:00:00Z", "close": "68.2"},
		{"time": "05/02/2024", "close": "69.0"},
	})
	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2 (degraded rows are retained)", len(out))
	}
	if _, ok := out[0]["time"].(time.Time); !ok {
		t.Fatalf("parseable timestamp = %#v, want time.Time", out[0]["time"])
	}
	if got := out[1]["time"]; got != "05/02/2024" {
		t.Fatalf("degraded timestamp = %#v, want raw token", got)
	}
	if q.DegradedTimestamps != 1 || q.CoercionFailures != 1 {
		t.Fatalf("counters = %+v", q)
	}
	if q.Flag() != "degraded" {
		t.Fatalf("flag = %q, want degraded", q.Flag())
	}
}

func TestCoerce_Bool(t *testing.T) {
	ds := schema.Dataset{
		Name: "flags",
		Columns: []schema.ColumnRule{
			{Raw: "id", Canonical: "id", Type: schema.TypeText, Required: true},
			{Raw: "active", Canonical: "active", Type: schema.TypeBool},
		},
		Key: []string{"id"},
	}
	q := &quality.Record{}
	c := Coerce{Dataset: ds, MaxYear: 2027, Quality: q}

	out := c.Apply([]records.Record{
		{"id": "a", "active": "true"},
		{"id": "b", "active": "0"},
		{"id": "c", "active": "yes"},
	})
	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2", len(out))
	}
	if out[0]["active"] != true || out[1]["active"] != false {
		t.Fatalf("bools = %#v, %#v", out[0]["active"], out[1]["active"])
	}
	if q.RowsRejected != 1 {
		t.Fatalf("counters = %+v", q)
	}
}
