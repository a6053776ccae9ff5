package builtin

import (
	"testing"

	"energyetl/internal/quality"
	"energyetl/pkg/records"
)

/*
TestResolveNulls covers both phases of missing-value resolution:

  - PreCoerce: empty_string_to_null columns (aggregate rows have no ISO
    code) convert "" to nil.
  - PostCoerce: named sentinels convert to nil by original token identity.
  - Typed zero values are never treated as missing.

Every conversion moves the NullsConverted counter exactly once.
*/
func TestResolveNulls(t *testing.T) {
	ds := emissionsDataset()

	t.Run("pre_coerce_empty_code", func(t *testing.T) {
		q := &quality.Record{}
		out := ResolveNulls{Dataset: ds, Phase: PreCoerce, Quality: q}.Apply([]records.Record{
			{"entity": "Africa", "code": "", "year": "1990", "annual_co2_emissions": "10"},
			{"entity": "Germany", "code": "DEU", "year": "1990", "annual_co2_emissions": "20"},
		})
		if v, ok := out[0]["code"]; !ok || v != nil {
			t.Fatalf("aggregate code = %#v, want nil", v)
		}
		if out[1]["code"] != "DEU" {
			t.Fatalf("country code = %#v, want DEU", out[1]["code"])
		}
		if q.NullsConverted != 1 {
			t.Fatalf("NullsConverted = %d, want 1", q.NullsConverted)
		}
	})

	t.Run("pre_coerce_ignores_sentinels", func(t *testing.T) {
		q := &quality.Record{}
		out := ResolveNulls{Dataset: ds, Phase: PreCoerce, Quality: q}.Apply([]records.Record{
			{"entity": "Kuwait", "code": "KWT", "year": "1991", "annual_co2_emissions": "NaN"},
		})
		if out[0]["annual_co2_emissions"] != "NaN" {
			t.Fatalf("sentinel touched in pre phase: %#v", out[0]["annual_co2_emissions"])
		}
		if q.NullsConverted != 0 {
			t.Fatalf("NullsConverted = %d, want 0", q.NullsConverted)
		}
	})

	t.Run("post_coerce_sentinel_tokens", func(t *testing.T) {
		q := &quality.Record{}
		out := ResolveNulls{Dataset: ds, Phase: PostCoerce, Quality: q}.Apply([]records.Record{
			{"entity": "Kuwait", "code": "KWT", "year": 1991, "annual_co2_emissions": "NaN"},
			{"entity": "Kuwait", "code": "KWT", "year": 1992, "annual_co2_emissions": "null"},
			{"entity": "Kuwait", "code": "KWT", "year": 1993, "annual_co2_emissions": 0.0},
		})
		if v := out[0]["annual_co2_emissions"]; v != nil {
			t.Fatalf("NaN = %#v, want nil", v)
		}
		if v := out[1]["annual_co2_emissions"]; v != nil {
			t.Fatalf("null = %#v, want nil", v)
		}
		// A real zero is data, not missing data.
		if v := out[2]["annual_co2_emissions"]; v != 0.0 {
			t.Fatalf("zero = %#v, want 0.0", v)
		}
		if q.NullsConverted != 2 {
			t.Fatalf("NullsConverted = %d, want 2", q.NullsConverted)
		}
	})
}
