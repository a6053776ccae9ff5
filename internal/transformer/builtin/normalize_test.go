package builtin

import (
	"errors"
	"reflect"
	"testing"

	"energyetl/internal/schema"
)

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Entity", "entity"},
		{"Annual CO₂ emissions", "annual_co2_emissions"},
		{"Coal - TWh", "coal_twh"},
		{"Other renewables - TWh", "other_renewables_twh"},
		{"Production-based energy", "production_based_energy"},
		{"Volume MA", "volume_ma"},
		{"  time  ", "time"},
		{"Entity (région)", "entity_region"},
		{"__Already__Snake__", "already_snake"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := CanonicalName(tc.raw); got != tc.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func co2Dataset() schema.Dataset {
	return schema.Dataset{
		Name: "co2_emissions",
		Columns: []schema.ColumnRule{
			{Raw: "Entity", Canonical: "entity", Type: schema.TypeText, Required: true},
			{Raw: "Code", Canonical: "code", Type: schema.TypeText, Null: schema.EmptyToNull},
			{Raw: "Year", Canonical: "year", Type: schema.TypeYear, Required: true},
			{Raw: "Annual CO₂ emissions", Canonical: "annual_co2_emissions", Type: schema.TypeFloat},
		},
		Key: []string{"entity", "year"},
	}
}

func TestMapHeader(t *testing.T) {
	ds := co2Dataset()

	m, err := MapHeader(ds, []string{"Entity", "Code", "Year", "Annual CO₂ emissions"})
	if err != nil {
		t.Fatalf("MapHeader: %v", err)
	}
	var got []string
	for _, col := range m.Columns {
		got = append(got, col.Canonical)
	}
	want := []string{"entity", "code", "year", "annual_co2_emissions"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("canonical order = %v, want %v", got, want)
	}
}

func TestMapHeader_UnmappedColumn(t *testing.T) {
	ds := co2Dataset()

	_, err := MapHeader(ds, []string{"Entity", "Code", "Year", "Mystery Column"})
	var ue *UnmappedColumnError
	if !errors.As(err, &ue) {
		t.Fatalf("got %v, want *UnmappedColumnError", err)
	}
	if ue.Raw != "Mystery Column" || ue.Canonical != "mystery_column" {
		t.Fatalf("error = %+v", ue)
	}
}

func TestMapHeader_Droppable(t *testing.T) {
	ds := schema.Dataset{
		Name: "nymex_gas_prices",
		Columns: []schema.ColumnRule{
			{Raw: "time", Canonical: "time", Type: schema.TypeTimestamp, Required: true},
			{Raw: "close", Canonical: "close", Type: schema.TypeFloat},
		},
		Droppable: []string{"plot"},
		Key:       []string{"time"},
	}

	m, err := MapHeader(ds, []string{"time", "close", "Plot"})
	if err != nil {
		t.Fatalf("MapHeader: %v", err)
	}
	if !reflect.DeepEqual(m.Dropped, []string{"plot"}) {
		t.Fatalf("Dropped = %v, want [plot]", m.Dropped)
	}
	if !m.Columns[2].Drop {
		t.Fatal("plot column not marked dropped")
	}
}

// Matching is by canonical form on both sides, so header spelling noise
// (case, separators) still binds to the declared rule.
func TestMapHeader_SpellingInsensitive(t *testing.T) {
	ds := co2Dataset()
	m, err := MapHeader(ds, []string{"entity", "CODE", "year", "annual co2 emissions"})
	if err != nil {
		t.Fatalf("MapHeader: %v", err)
	}
	if m.Columns[3].Canonical != "annual_co2_emissions" {
		t.Fatalf("bound %q", m.Columns[3].Canonical)
	}
}
