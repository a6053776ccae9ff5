// Package transformer defines the stage contract for the row-level part of
// the cleaning pipeline. Stages are applied in a fixed order per dataset;
// the runner records a lineage entry around every stage application.
package transformer

import "energyetl/pkg/records"

// Stage is one named row-level operation. Apply may mutate records in place
// or return a filtered slice; it must never drop a row without the owning
// quality record being updated.
type Stage interface {
	Name() string
	Apply(in []records.Record) []records.Record
}

// Chain is an ordered list of stages.
type Chain []Stage

// Apply runs every stage in order.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, s := range c {
		out = s.Apply(out)
	}
	return out
}
