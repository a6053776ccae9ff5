package builtin

import (
	"energyetl/internal/quality"
	"energyetl/internal/schema"
	"energyetl/pkg/records"
)

// Phase selects which null policies a ResolveNulls pass applies.
type Phase int

const (
	// PreCoerce handles empty_string_to_null for untyped string columns
	// (e.g. ISO codes of regional aggregates) before types are applied.
	PreCoerce Phase = iota
	// PostCoerce handles named_sentinel_to_null for typed columns whose
	// sentinel spelling only identifies a missing value in its original
	// quoted string form (a literal "NaN" in a numeric column).
	PostCoerce
)

// ResolveNulls applies the per-column null policies of one dataset.
// Missing-ness is decided purely by original token identity: a coerced 0 or
// false is never treated as missing, and by the post-coercion phase every
// remaining sentinel is still a string, so typed values cannot match.
type ResolveNulls struct {
	Dataset schema.Dataset
	Phase   Phase
	Quality *quality.Record
}

func (r ResolveNulls) Name() string {
	if r.Phase == PreCoerce {
		return "resolve_nulls_pre"
	}
	return "resolve_nulls_post"
}

func (r ResolveNulls) Apply(in []records.Record) []records.Record {
	for _, rec := range in {
		for _, rule := range r.Dataset.Columns {
			v, ok := rec[rule.Canonical]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			switch {
			case r.Phase == PreCoerce && rule.Null == schema.EmptyToNull && s == "":
				rec[rule.Canonical] = nil
				r.Quality.NullsConverted++
			case r.Phase == PostCoerce && isSentinel(rule, s):
				rec[rule.Canonical] = nil
				r.Quality.NullsConverted++
			}
		}
	}
	return in
}
