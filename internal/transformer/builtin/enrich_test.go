package builtin

import (
	"testing"
	"time"

	"energyetl/internal/quality"
	"energyetl/pkg/records"
)

func TestEnrich(t *testing.T) {
	at := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)

	t.Run("clean_dataset", func(t *testing.T) {
		q := &quality.Record{}
		rec := records.Record{"entity": "Germany"}
		Enrich{Source: "co2_emissions", Timestamp: at, Quality: q}.Apply([]records.Record{rec})

		if rec[ColDataSource] != "co2_emissions" {
			t.Errorf("data_source = %#v", rec[ColDataSource])
		}
		if rec[ColQualityFlag] != "clean" {
			t.Errorf("flag = %#v, want clean", rec[ColQualityFlag])
		}
		if rec[ColLastUpdated] != "2026-08-28" {
			t.Errorf("last_updated = %#v", rec[ColLastUpdated])
		}
	})

	t.Run("degraded_dataset_flags_every_row", func(t *testing.T) {
		q := &quality.Record{DegradedTimestamps: 3, CoercionFailures: 3}
		rows := []records.Record{{"time": "x"}, {"time": "y"}}
		Enrich{Source: "nymex_gas_prices", Timestamp: at, Quality: q}.Apply(rows)

		for i, rec := range rows {
			if rec[ColQualityFlag] != "degraded" {
				t.Errorf("row %d flag = %#v, want degraded", i, rec[ColQualityFlag])
			}
		}
	})
}
