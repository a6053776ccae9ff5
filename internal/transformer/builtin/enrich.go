package builtin

import (
	"time"

	"energyetl/internal/quality"
	"energyetl/pkg/records"
)

// Metadata column names appended to every output row.
const (
	ColDataSource  = "data_source"
	ColQualityFlag = "data_quality_flag"
	ColLastUpdated = "last_updated"
	ColEntityType  = "entity_type"
)

// Enrich appends the provenance columns: the dataset-source tag, the
// dataset-level quality flag, and the processing date. The flag and
// timestamp are single values for the whole run, resolved from the
// run context rather than ambient process state, so concurrent dataset
// workers never interfere.
type Enrich struct {
	Source    string
	Timestamp time.Time
	Quality   *quality.Record
}

func (Enrich) Name() string { return "enrich_metadata" }

func (e Enrich) Apply(in []records.Record) []records.Record {
	// The flag is resolved once, after all row-level coercion has run.
	flag := e.Quality.Flag()
	date := e.Timestamp.Format("2006-01-02")
	for _, rec := range in {
		rec[ColDataSource] = e.Source
		rec[ColQualityFlag] = flag
		rec[ColLastUpdated] = date
	}
	return in
}
