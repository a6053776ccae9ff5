// Package records defines the row representation shared by every pipeline
// stage. A Record maps canonical column names to typed values; absence of a
// key and an explicit nil value both mean NULL.
package records

import "time"

// Record is one row keyed by canonical column name. Values are one of:
// string, int, float64, bool, time.Time, or nil (NULL).
type Record map[string]any

// IsNull reports whether the named column is NULL (missing or nil).
func (r Record) IsNull(field string) bool {
	v, ok := r[field]
	return !ok || v == nil
}

// Float returns the float64 value of field. ok is false when the value is
// NULL or not numeric. Integers are widened so that derived formulas can
// consume year-typed columns as well.
func (r Record) Float(field string) (float64, bool) {
	switch v := r[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// String returns the string value of field, or "" when NULL or non-string.
func (r Record) String(field string) string {
	if s, ok := r[field].(string); ok {
		return s
	}
	return ""
}

// Time returns the time.Time value of field. ok is false when the value is
// NULL or was retained as a raw string by the degraded timestamp path.
func (r Record) Time(field string) (time.Time, bool) {
	t, ok := r[field].(time.Time)
	return t, ok
}

// Clone returns a shallow copy of the record. Stages that replace rather
// than mutate rows use this to keep inputs intact for rejection reporting.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
