// Package quality tracks per-dataset cleaning counters and derives the
// run-level quality score. A Record is owned by a single dataset pipeline
// and is discarded after the run summary is written.
package quality

// Record holds the counters for one dataset's run.
type Record struct {
	Dataset string `json:"dataset"`

	RowsIn  int `json:"rows_in"`
	RowsOut int `json:"rows_out"`

	NullsConverted    int `json:"nulls_converted"`
	DuplicatesRemoved int `json:"duplicates_removed"`

	// CoercionFailures counts every coercion problem, including degraded
	// timestamps and rows rejected for range violations. No row is ever
	// mutated or dropped without one of these counters moving.
	CoercionFailures   int `json:"coercion_failures"`
	RangeRejections    int `json:"range_rejections"`
	RequiredMissing    int `json:"required_missing"`
	DegradedTimestamps int `json:"degraded_timestamps"`

	// RowsRejected is the total number of rows removed for data errors.
	// rows_in - rows_out == RowsRejected + DuplicatesRemoved always holds.
	RowsRejected int `json:"rows_rejected"`

	PctTripleViolations int `json:"pct_triple_violations"`
	EntityCodeConflicts int `json:"entity_code_conflicts"`
}

// Degraded reports whether any row of the dataset required degraded
// handling.
func (r *Record) Degraded() bool {
	return r.CoercionFailures > 0 || r.RangeRejections > 0 || r.DegradedTimestamps > 0
}

// Flag returns the dataset-level quality flag stamped onto every output row.
func (r *Record) Flag() string {
	if r.Degraded() {
		return "degraded"
	}
	return "clean"
}

// ErrorKinds lists the distinct error kinds the dataset encountered, for the
// run summary. Order is fixed so reruns produce identical reports.
func (r *Record) ErrorKinds() []string {
	var kinds []string
	if r.RangeRejections > 0 {
		kinds = append(kinds, "RangeValidationError")
	}
	if r.CoercionFailures > r.RangeRejections+r.DegradedTimestamps {
		kinds = append(kinds, "CoercionError")
	}
	if r.DegradedTimestamps > 0 {
		kinds = append(kinds, "DegradedTimestamp")
	}
	if r.RequiredMissing > 0 {
		kinds = append(kinds, "RequiredMissing")
	}
	if r.DuplicatesRemoved > 0 {
		kinds = append(kinds, "DuplicateKey")
	}
	if r.PctTripleViolations > 0 {
		kinds = append(kinds, "PctTripleViolation")
	}
	if r.EntityCodeConflicts > 0 {
		kinds = append(kinds, "EntityCodeConflict")
	}
	return kinds
}

// Score computes the run-level quality percentage across datasets:
// the retention ratio averaged with the coercion-success ratio, each in
// [0,1], scaled to a percentage. More failures never increase the score.
func Score(recs []*Record) float64 {
	var in, out, failures int
	for _, r := range recs {
		in += r.RowsIn
		out += r.RowsOut
		failures += r.CoercionFailures
	}
	if in == 0 {
		return 100
	}
	retention := float64(out) / float64(in)
	coercion := 1 - float64(failures)/float64(in)
	if coercion < 0 {
		coercion = 0
	}
	return (retention*0.5 + coercion*0.5) * 100
}
