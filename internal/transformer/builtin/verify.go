package builtin

import (
	"math"

	"energyetl/internal/quality"
	"energyetl/internal/schema"
	"energyetl/pkg/records"
)

// pctTolerance is the accepted deviation, in percentage points, of a
// percentage triple from 100. Independent rounding explains up to a point;
// anything larger indicates a defect and is counted, not ignored.
const pctTolerance = 1.0

// VerifyShares checks that every percentage triple belonging to one
// conceptual whole sums to approximately 100 whenever its total is non-null
// and non-zero. Violations increment the quality record; rows are retained.
type VerifyShares struct {
	Triple  *schema.PctTriple
	Quality *quality.Record
}

func (VerifyShares) Name() string { return "verify_percent_shares" }

func (v VerifyShares) Apply(in []records.Record) []records.Record {
	if v.Triple == nil {
		return in
	}
	for _, rec := range in {
		total, ok := rec.Float(v.Triple.Total)
		if !ok || total == 0 {
			continue
		}
		sum := 0.0
		for _, col := range v.Triple.Columns {
			p, ok := rec.Float(col)
			if !ok {
				continue
			}
			sum += p
		}
		if math.Abs(sum-100) > pctTolerance {
			v.Quality.PctTripleViolations++
		}
	}
	return in
}

// VerifyEntityCodes counts entities that map to more than one ISO code
// within a dataset, a cross-column consistency defect surfaced in the run
// summary.
type VerifyEntityCodes struct {
	EntityField string
	CodeField   string
	Quality     *quality.Record
}

func (VerifyEntityCodes) Name() string { return "verify_entity_codes" }

func (v VerifyEntityCodes) Apply(in []records.Record) []records.Record {
	codes := make(map[string]string)
	flagged := make(map[string]struct{})
	for _, rec := range in {
		entity := rec.String(v.EntityField)
		code, isStr := rec[v.CodeField].(string)
		if entity == "" || !isStr || code == "" {
			continue
		}
		prev, seen := codes[entity]
		if !seen {
			codes[entity] = code
			continue
		}
		if prev != code {
			if _, done := flagged[entity]; !done {
				flagged[entity] = struct{}{}
				v.Quality.EntityCodeConflicts++
			}
		}
	}
	return in
}
